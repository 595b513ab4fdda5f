package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paneforge/paneforge/pkg/config"
)

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestCacheDirHomeFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", appName) {
		t.Errorf("cacheDir = %q", dir)
	}
}

// loadTestConfig writes and loads a minimal project in a temp dir.
func loadTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFilename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestChooseLayout(t *testing.T) {
	c := New(io.Discard, LogInfo)

	t.Run("flag wins", func(t *testing.T) {
		cfg := loadTestConfig(t, "template = \"p.html\"\nlayouts = [\"a.json\", \"b.json\"]")
		got, err := c.chooseLayout(cfg, "explicit.json")
		if err != nil || got != "explicit.json" {
			t.Errorf("chooseLayout = (%q, %v), want the flag value", got, err)
		}
	})

	t.Run("single layout used directly", func(t *testing.T) {
		cfg := loadTestConfig(t, "template = \"p.html\"\nlayouts = [\"only.json\"]")
		got, err := c.chooseLayout(cfg, "")
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(got) != "only.json" {
			t.Errorf("chooseLayout = %q, want the single configured layout", got)
		}
		if !filepath.IsAbs(got) && got == "only.json" {
			t.Error("layout path should be resolved against the config dir")
		}
	})
}

func TestBuildOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cfg := loadTestConfig(t, `
template = "page.html"
layouts  = ["main.json"]
stylesheets = ["a.css"]
scripts     = ["b.js"]
output   = "dist/index.html"

[substitutions]
K = "v"
`)

	opts := c.buildOptions(cfg, "chosen.json")

	if filepath.Base(opts.Template) != "page.html" || opts.Template == "page.html" {
		t.Errorf("Template = %q, want resolved against config dir", opts.Template)
	}
	if opts.Layout != "chosen.json" {
		t.Errorf("Layout = %q", opts.Layout)
	}
	if filepath.Base(opts.Output) != "index.html" {
		t.Errorf("Output = %q", opts.Output)
	}
	if opts.Substitutions["K"] != "v" {
		t.Errorf("Substitutions = %v", opts.Substitutions)
	}
	if opts.Logger == nil {
		t.Error("Logger missing from build options")
	}
}

func TestNewCacheBackends(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	t.Run("no-cache flag", func(t *testing.T) {
		store, err := c.newCache(ctx, nil, true)
		if err != nil || store == nil {
			t.Fatalf("newCache = (%v, %v)", store, err)
		}
	})

	t.Run("backend none", func(t *testing.T) {
		cfg := loadTestConfig(t, "template = \"p.html\"\nlayouts = [\"a.json\"]\n[cache]\nbackend = \"none\"")
		store, err := c.newCache(ctx, cfg, false)
		if err != nil || store == nil {
			t.Fatalf("newCache = (%v, %v)", store, err)
		}
	})

	t.Run("default file backend", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		cfg := loadTestConfig(t, "template = \"p.html\"\nlayouts = [\"a.json\"]")
		store, err := c.newCache(ctx, cfg, false)
		if err != nil || store == nil {
			t.Fatalf("newCache = (%v, %v)", store, err)
		}
	})
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"build", "inspect", "graph", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %s", name)
		}
	}
}
