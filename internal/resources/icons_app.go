package resources

import (
	_ "embed"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

//go:embed icons/app_dark.svg
var appIconDark []byte

//go:embed icons/app_light.svg
var appIconLight []byte

var appIconResources = map[fyne.ThemeVariant]fyne.Resource{
	theme.VariantDark:  fyne.NewStaticResource("fynetip-dark.svg", appIconDark),
	theme.VariantLight: fyne.NewStaticResource("fynetip-light.svg", appIconLight),
}

// AppIconResource returns the window icon matching variant. Unknown variants
// get the dark icon.
func AppIconResource(variant fyne.ThemeVariant) fyne.Resource {
	if res, ok := appIconResources[variant]; ok {
		return res
	}

	return appIconResources[theme.VariantDark]
}
