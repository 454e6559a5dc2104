package gallery

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skobkin/fynetip/internal/config"
)

//go:embed default.yaml
var defaultGallery []byte

// Mode values accepted for Item.Mode.
const (
	ModeHover      = "hover"
	ModeClick      = "click"
	ModeControlled = "controlled"
)

// Align values accepted for Item.Align.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Gallery describes the demo tooltips shown by the gallery window.
type Gallery struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

type Section struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Items       []Item `yaml:"items"`
}

// Item is one trigger with its tooltip.
type Item struct {
	Label   string `yaml:"label"`
	Message string `yaml:"message"`
	// Mode is hover (default), click or controlled.
	Mode           string `yaml:"mode,omitempty"`
	DefaultVisible bool   `yaml:"default_visible,omitempty"`
	// Align places the trigger in its row: left (default), center or right.
	Align string `yaml:"align,omitempty"`
	// Background is a "#rrggbb" colour; empty uses the app default.
	Background string  `yaml:"background,omitempty"`
	Opacity    float64 `yaml:"opacity,omitempty"`
	TextSize   float32 `yaml:"text_size,omitempty"`
	ZIndex     int     `yaml:"z_index,omitempty"`
	Name       string  `yaml:"name,omitempty"`
	// Clickable makes a click on the message report itself in the status
	// line.
	Clickable bool `yaml:"clickable,omitempty"`
	// Snippet is shown under the trigger as a usage example.
	Snippet string `yaml:"snippet,omitempty"`
}

// Default returns the built-in gallery.
func Default() (Gallery, error) {
	return Parse(defaultGallery, "built-in gallery")
}

// Load reads a gallery file. An empty path returns the built-in gallery.
func Load(path string) (Gallery, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	cleanPath := filepath.Clean(path)
	// #nosec G304 -- gallery path is passed explicitly by the user.
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Gallery{}, fmt.Errorf("read gallery file %q: %w", path, err)
	}

	return Parse(data, path)
}

func Parse(data []byte, source string) (Gallery, error) {
	var g Gallery

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return g, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	g.normalize()
	if errs := g.Validate(); len(errs) > 0 {
		return g, fmt.Errorf("invalid gallery in %q: %s", source, strings.Join(errs, "; "))
	}

	return g, nil
}

func (g *Gallery) normalize() {
	g.Title = strings.TrimSpace(g.Title)
	for si := range g.Sections {
		section := &g.Sections[si]
		section.Title = strings.TrimSpace(section.Title)
		for ii := range section.Items {
			item := &section.Items[ii]
			item.Mode = strings.ToLower(strings.TrimSpace(item.Mode))
			if item.Mode == "" {
				item.Mode = ModeHover
			}
			item.Align = strings.ToLower(strings.TrimSpace(item.Align))
			if item.Align == "" {
				item.Align = AlignLeft
			}
			item.Background = strings.TrimSpace(item.Background)
			item.Name = strings.TrimSpace(item.Name)
		}
	}
}

func (g Gallery) Validate() []string {
	var errs []string

	if g.Title == "" {
		errs = append(errs, "title is required")
	}
	if len(g.Sections) == 0 {
		errs = append(errs, "sections must contain at least one section")

		return errs
	}

	names := map[string]struct{}{}
	for si, section := range g.Sections {
		if section.Title == "" {
			errs = append(errs, fmt.Sprintf("sections[%d].title is required", si))
		}
		if len(section.Items) == 0 {
			errs = append(errs, fmt.Sprintf("sections[%d].items must contain at least one item", si))
		}
		for ii, item := range section.Items {
			path := fmt.Sprintf("sections[%d].items[%d]", si, ii)
			if strings.TrimSpace(item.Label) == "" {
				errs = append(errs, path+".label is required")
			}
			switch item.Mode {
			case ModeHover, ModeClick, ModeControlled:
			default:
				errs = append(errs, fmt.Sprintf("%s.mode %q is not one of hover, click, controlled", path, item.Mode))
			}
			switch item.Align {
			case AlignLeft, AlignCenter, AlignRight:
			default:
				errs = append(errs, fmt.Sprintf("%s.align %q is not one of left, center, right", path, item.Align))
			}
			if item.Opacity < 0 || item.Opacity > 1 {
				errs = append(errs, path+".opacity must be within 0..1")
			}
			if item.TextSize < 0 {
				errs = append(errs, path+".text_size must not be negative")
			}
			if _, err := item.BackgroundColor(0); err != nil {
				errs = append(errs, fmt.Sprintf("%s.background: %v", path, err))
			}
			if item.Name != "" {
				if _, ok := names[item.Name]; ok {
					errs = append(errs, fmt.Sprintf("%s duplicate name %q", path, item.Name))
				}
				names[item.Name] = struct{}{}
			}
		}
	}

	return errs
}

// BackgroundColor resolves the item background. The item opacity wins over
// fallbackOpacity; nil means the app default colour.
func (i Item) BackgroundColor(fallbackOpacity float64) (color.Color, error) {
	opacity := i.Opacity
	if opacity == 0 {
		opacity = fallbackOpacity
	}

	return config.TooltipConfig{Background: i.Background, Opacity: opacity}.BackgroundColor()
}

// ItemCount returns the number of items across all sections.
func (g Gallery) ItemCount() int {
	n := 0
	for _, section := range g.Sections {
		n += len(section.Items)
	}

	return n
}
