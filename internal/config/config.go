package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "POV_MCP_CONFIG"

// Profile is a named, reusable set of conversion settings.
type Profile struct {
	// Description is shown by the led_profiles tool.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	ledmap.Settings `yaml:",inline" json:"settings"`
}

// Config is the top-level server configuration.
type Config struct {
	// Workers bounds batch conversion concurrency. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`

	// PreviewSize is the default side of preview PNGs.
	PreviewSize int `yaml:"preview_size" json:"preview_size"`

	// DefaultProfile is applied when a tool call names no profile.
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`

	// Profiles maps profile names to settings.
	Profiles map[string]Profile `yaml:"profiles" json:"profiles"`
}

// DefaultConfig returns the built-in configuration: a few common matrix
// sizes and the 72-LED, 150-division fan arm.
func DefaultConfig() *Config {
	return &Config{
		Workers:        0,
		PreviewSize:    400,
		DefaultProfile: "matrix16",
		Profiles: map[string]Profile{
			"matrix8": {
				Description: "8x8 LED matrix",
				Settings:    ledmap.Settings{Mode: ledmap.ModeGrid, Resolution: 8, Threshold: ledmap.DefaultThreshold},
			},
			"matrix16": {
				Description: "16x16 LED matrix",
				Settings:    ledmap.Settings{Mode: ledmap.ModeGrid, Resolution: 16, Threshold: ledmap.DefaultThreshold},
			},
			"matrix32": {
				Description: "32x32 LED matrix",
				Settings:    ledmap.Settings{Mode: ledmap.ModeGrid, Resolution: 32, Threshold: ledmap.DefaultThreshold},
			},
			"fan72": {
				Description: "72-LED WS2815 fan arm, 150 lines per rotation",
				Settings: ledmap.Settings{
					Mode:        ledmap.ModePolar,
					Resolution:  72,
					Divisions:   150,
					Threshold:   ledmap.DefaultThreshold,
					WorkingSize: ledmap.DefaultWorkingSize,
					Brightness:  0.5,
					LineShift:   -18,
				},
			},
		},
	}
}

// Normalize fills in missing values with defaults so partially written
// files still behave.
func (c *Config) Normalize() {
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 400
	}
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		c.DefaultProfile = ""
	}
}

// Validate checks every profile's settings.
func (c *Config) Validate() error {
	for _, name := range c.ProfileNames() {
		if err := c.Profiles[name].Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for n := range c.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Profile looks up a profile by name. The empty name selects DefaultProfile;
// if that is unset too, ok is false.
func (c *Config) Profile(name string) (Profile, bool) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return Profile{}, false
	}
	p, ok := c.Profiles[name]
	return p, ok
}

// Load reads configuration from a YAML file.
//
// An empty path or a missing file yields DefaultConfig. Profiles are
// validated so that a bad file is reported at startup rather than on the
// first conversion.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg as YAML, atomically via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pov-bitmap-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
