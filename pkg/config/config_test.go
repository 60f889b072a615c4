package config

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if err := (Config{}).Validate(); err != nil {
		t.Fatalf("zero Config should be valid (all forces disabled): %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative attraction", func(c *Config) { c.Attraction = -1 }},
		{"NaN repulsion", func(c *Config) { c.Repulsion = math.NaN() }},
		{"friction above one", func(c *Config) { c.Friction = 1.5 }},
		{"infinite gravity", func(c *Config) { c.Gravity = math.Inf(1) }},
		{"zero epsilon with repulsion", func(c *Config) { c.Epsilon = 0 }},
		{"negative inner distance", func(c *Config) { c.InnerDistance = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			if errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("Validate() = %v, inner INVALID_ARGUMENT should not leak", err)
			}
		})
	}
}

func TestDecodePartialKeepsDefaults(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"toml", FormatTOML, "repulsion = 50.0\nsnap_velocity = true\n"},
		{"yaml", FormatYAML, "repulsion: 50.0\nsnap_velocity: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if cfg.Repulsion != 50 {
				t.Errorf("Repulsion = %v, want 50", cfg.Repulsion)
			}
			if !cfg.SnapVelocity {
				t.Error("SnapVelocity = false, want true")
			}
			if cfg.Attraction != DefaultAttraction {
				t.Errorf("Attraction = %v, want default %v", cfg.Attraction, DefaultAttraction)
			}
			if cfg.InnerDistance != DefaultInnerDistance {
				t.Errorf("InnerDistance = %v, want default %v", cfg.InnerDistance, DefaultInnerDistance)
			}
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	_, err := Decode([]byte("friction = 2.0\n"), FormatTOML)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Decode() error = %v, want INVALID_CONFIG", err)
	}

	_, err = Decode([]byte("friction: [1, 2"), FormatYAML)
	if err == nil {
		t.Error("Decode() malformed YAML should fail")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.Gravity = 0
	want.SnapVelocity = true
	want.StopEnergy = 1e-4

	for _, format := range []string{FormatTOML, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := want.Marshal(format)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got, err := Decode(data, format)
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, data)
			}
			if got != want {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"physics.toml", FormatTOML, false},
		{"physics.YAML", FormatYAML, false},
		{"dir/physics.yml", FormatYAML, false},
		{"physics.json", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physics.toml")
	if err := os.WriteFile(path, []byte("attraction = 0.01\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Attraction != 0.01 {
		t.Errorf("Attraction = %v, want 0.01", cfg.Attraction)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physics.yaml")
	if err := os.WriteFile(path, []byte("gravity: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if w.Current().Gravity != 0.5 {
		t.Fatalf("Gravity = %v, want 0.5", w.Current().Gravity)
	}

	var seen []Config
	w.OnChange(func(c Config) { seen = append(seen, c) })

	if err := os.WriteFile(path, []byte("gravity: 0.25\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if w.Current().Gravity != 0.25 {
		t.Errorf("Gravity after reload = %v, want 0.25", w.Current().Gravity)
	}
	if len(seen) != 1 {
		t.Errorf("OnChange called %d times, want 1", len(seen))
	}

	// An invalid file keeps the previous configuration.
	if err := os.WriteFile(path, []byte("friction: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Reload(); err == nil {
		t.Error("Reload() of invalid file should fail")
	}
	if w.Current().Gravity != 0.25 {
		t.Errorf("Gravity after rejected reload = %v, want 0.25", w.Current().Gravity)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf, "ini"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Encode(ini) error = %v, want UNSUPPORTED", err)
	}
}

func TestExampleConfigs(t *testing.T) {
	tests := []struct {
		file string
		want func(Config) bool
	}{
		{"layout.toml", func(c Config) bool { return c.SnapVelocity && c.StopEnergy == 0.0001 }},
		{"layout.yaml", func(c Config) bool { return c.Repulsion == 250 && c.Gravity == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := Load(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.want(cfg) {
				t.Errorf("Load() = %+v", cfg)
			}
		})
	}
}
