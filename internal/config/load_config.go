package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Default returns the built-in run description.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse built-in config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path on top of the built-in defaults.
// Keys missing from the file keep their default; lists such as sections are
// replaced as a whole. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every structural problem in the config at once.
func (c Config) Validate() error {
	var errs []error
	for i, s := range c.Sections {
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("sections[%d]: title is required", i))
		}
		for j, r := range s.Requirements {
			if err := r.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("sections[%d].requirements[%d]: %w", i, j, err))
			}
		}
	}
	if len(c.Launch.Command) == 0 {
		errs = append(errs, errors.New("launch: command is required"))
	}
	return errors.Join(errs...)
}

// Validate checks that the fields the requirement's kind depends on are present.
func (r Requirement) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	switch r.Kind {
	case KindBinary:
		if r.Version != "" {
			if _, err := semver.NewConstraint(r.Version); err != nil {
				return fmt.Errorf("%s: invalid version constraint %q: %w", r.Name, r.Version, err)
			}
		}
		switch r.Source {
		case "", SourcePackage:
		case SourceGitHub:
			if r.Repo == "" {
				return fmt.Errorf("%s: repo is required for source %q", r.Name, r.Source)
			}
		case SourceURL:
			if r.URL == "" {
				return fmt.Errorf("%s: url is required for source %q", r.Name, r.Source)
			}
		default:
			return fmt.Errorf("%s: unknown source %q", r.Name, r.Source)
		}
	case KindEnv:
	case KindFile, KindWorkDir:
		if r.Path == "" {
			return fmt.Errorf("%s: path is required for kind %q", r.Name, r.Kind)
		}
	case KindCommand:
		if len(r.Probe) == 0 {
			return fmt.Errorf("%s: probe is required for kind %q", r.Name, r.Kind)
		}
		for i, cmd := range r.Install {
			if len(cmd) == 0 {
				return fmt.Errorf("%s: install[%d] is empty", r.Name, i)
			}
		}
	default:
		return fmt.Errorf("%s: unknown kind %q", r.Name, r.Kind)
	}
	return nil
}

// PackageName is the name handed to the package manager.
func (r Requirement) PackageName() string {
	if r.Package != "" {
		return r.Package
	}
	return r.Name
}
