package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Size() != 65 {
		t.Fatalf("default size = %d, want 65", c.Size())
	}
	if c.Width != 33 || c.Height != 33 || c.Depth != 17 {
		t.Fatalf("default terrain = %dx%dx%d", c.Width, c.Height, c.Depth)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"power":       func(c *Config) { c.Power = 0 },
		"granularity": func(c *Config) { c.Granularity = 0 },
		"entropy":     func(c *Config) { c.Entropy = -1 },
		"target":      func(c *Config) { c.OceanTarget = 1.5 },
		"tolerance":   func(c *Config) { c.OceanTolerance = -0.1 },
		"terrain":     func(c *Config) { c.Depth = 0 },
		"plan":        func(c *Config) { c.Plan = "" },
		"scale":       func(c *Config) { c.Scale = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestBindParsesFlags(t *testing.T) {
	c := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.Bind(fs)
	if err := fs.Parse([]string{"-power", "4", "-ocean", "0.4", "-plan", "classic", "-seed", "9"}); err != nil {
		t.Fatal(err)
	}
	if c.Power != 4 || c.OceanTarget != 0.4 || c.Plan != "classic" || c.Seed != 9 {
		t.Fatalf("parsed config = %+v", c)
	}
}

func TestLoadAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	doc := `{"entropy": 250, "power": 5, "plan": "classic"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	file, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if file.Entropy != 250 || file.Power != 5 || file.Granularity != 0.5 {
		t.Fatalf("loaded config = %+v", file)
	}

	flags := DefaultConfig()
	flags.Power = 3
	flags.Entropy = 1
	merged := Merge(flags, file, map[string]bool{"power": true})
	if merged.Power != 3 {
		t.Fatalf("explicit flag lost: power = %d", merged.Power)
	}
	if merged.Entropy != 250 || merged.Plan != "classic" {
		t.Fatalf("file values lost: %+v", merged)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestFromMap(t *testing.T) {
	c := DefaultConfig()
	if err := c.FromMap(map[string]string{"granularity": "0.7", "power": "3"}); err != nil {
		t.Fatal(err)
	}
	if c.Granularity != 0.7 || c.Power != 3 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if err := c.FromMap(map[string]string{"power": "x"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("bad value: %v", err)
	}
	if err := c.FromMap(map[string]string{"colour": "red"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("unknown key: %v", err)
	}
}

func TestParameters(t *testing.T) {
	c := DefaultConfig()
	c.Seed = 42
	p := c.Parameters()
	if v, ok := p.Lookup("size"); !ok || v.Value != "65" {
		t.Fatalf("size parameter = %+v", v)
	}
	if v, ok := p.Lookup("seed"); !ok || v.Value != "42" {
		t.Fatalf("seed parameter = %+v", v)
	}
}
