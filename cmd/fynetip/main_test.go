package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/skobkin/fynetip/internal/app"
)

func TestRootCommandParsesLaunchOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    launchOptions
		wantErr bool
	}{
		{name: "defaults", args: nil, want: launchOptions{}},
		{
			name: "all flags",
			args: []string{"--config", "/tmp/c.json", "--gallery", "g.yaml", "--log-level", "debug"},
			want: launchOptions{ConfigPath: "/tmp/c.json", GalleryPath: "g.yaml", LogLevel: "debug"},
		},
		{name: "unexpected positional", args: []string{"extra"}, wantErr: true},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: true},
	}

	for _, tc := range tests {
		var (
			got    launchOptions
			called bool
		)
		root := newRootCmd(func(_ *cobra.Command, opts launchOptions) error {
			called = true
			got = opts
			return nil
		})
		root.SetArgs(tc.args)
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})

		err := root.Execute()
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got nil", tc.name)
			}
			if called {
				t.Fatalf("%s: run must not be called on invalid input", tc.name)
			}

			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !called || got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v (called %v)", tc.name, tc.want, got, called)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	originalVersion, originalCommit := app.Version, app.Commit
	t.Cleanup(func() {
		app.Version, app.Commit = originalVersion, originalCommit
	})
	app.Version = "1.2.3"
	app.Commit = "abc123"

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "short", args: []string{"version", "--short"}, want: []string{"1.2.3\n"}},
		{name: "full", args: []string{"version"}, want: []string{"fynetip 1.2.3", "commit: abc123", "go: "}},
	}

	for _, tc := range tests {
		root := newRootCmd(func(*cobra.Command, launchOptions) error {
			t.Fatalf("%s: gallery must not start for the version command", tc.name)
			return nil
		})
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(tc.args)

		if err := root.Execute(); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		for _, want := range tc.want {
			if !strings.Contains(out.String(), want) {
				t.Fatalf("%s: expected %q in output %q", tc.name, want, out.String())
			}
		}
		if tc.name == "short" && out.String() != "1.2.3\n" {
			t.Fatalf("short version must print only the version, got %q", out.String())
		}
	}
}
