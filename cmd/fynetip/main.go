package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skobkin/fynetip/internal/app"
	"github.com/skobkin/fynetip/internal/ui"
)

type launchOptions struct {
	ConfigPath  string
	GalleryPath string
	LogLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(func(cmd *cobra.Command, opts launchOptions) error {
		return runGallery(cmd.Context(), stop, opts)
	})
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(run func(cmd *cobra.Command, opts launchOptions) error) *cobra.Command {
	var opts launchOptions

	root := &cobra.Command{
		Use:           app.Name,
		Short:         "Tooltip gallery for fyne applications",
		Long:          "Opens a window with hover, click and controlled tooltips described by a gallery file.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	root.Flags().StringVar(&opts.ConfigPath, "config", "", "path to the JSON config file (default: user config dir)")
	root.Flags().StringVar(&opts.GalleryPath, "gallery", "", "path to a YAML gallery file (default: built-in gallery)")
	root.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level override: debug, info, warn or error")
	root.AddCommand(versionCmd(), historyCmd())

	return root
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())

				return
			}
			fmt.Fprint(cmd.OutOrStdout(), app.BuildSummary())
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version")

	return cmd
}

func runGallery(ctx context.Context, stop context.CancelFunc, opts launchOptions) error {
	rt, err := app.Initialize(ctx, app.Options{
		ConfigPath:  opts.ConfigPath,
		GalleryPath: opts.GalleryPath,
		LogLevel:    opts.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("initialize app runtime: %w", err)
	}

	var closeOnce sync.Once
	closeRuntime := func() {
		closeOnce.Do(func() {
			if err := rt.Close(); err != nil {
				slog.Warn("close app runtime", "error", err)
			}
		})
	}
	defer closeRuntime()

	cfg := rt.CurrentConfig()
	err = ui.Run(ui.Dependencies{
		Config:  cfg,
		Gallery: rt.Gallery,
		Bus:     rt.Bus,
		Logger:  rt.LogManager.Logger("ui"),
		OnQuit: func() {
			stop()
			closeRuntime()
		},
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	return nil
}
