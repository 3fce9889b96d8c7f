// Package config loads optional Lumen startup configuration from a YAML
// file, falling back to the interpreter's built-in defaults when no file is
// present or a field is left unset.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultPrompt  = "lumen >>> "
	defaultVersion = "v1.0.0"
	defaultAuthor  = "lumen-lang"
	defaultLicense = "MIT"
	defaultLine    = "----------------------------------------------------------------"
)

const defaultBanner = `
  ██╗     ██╗   ██╗███╗   ███╗███████╗███╗   ██╗
  ██║     ██║   ██║████╗ ████║██╔════╝████╗  ██║
  ██║     ██║   ██║██╔████╔██║█████╗  ██╔██╗ ██║
  ██║     ██║   ██║██║╚██╔╝██║██╔══╝  ██║╚██╗██║
  ███████╗╚██████╔╝██║ ╚═╝ ██║███████╗██║ ╚████║
  ╚══════╝ ╚═════╝ ╚═╝     ╚═╝╚══════╝╚═╝  ╚═══╝
`

// Config holds every value the REPL banner and prompt depend on, plus a
// Color toggle for disabling ANSI output (e.g. when piping to a file) and a
// ShowBanner toggle for suppressing the startup banner entirely (e.g. when
// driving the REPL from a script).
type Config struct {
	Prompt     string `yaml:"prompt"`
	Banner     string `yaml:"banner"`
	Version    string `yaml:"version"`
	Author     string `yaml:"author"`
	License    string `yaml:"license"`
	Line       string `yaml:"line"`
	Color      bool   `yaml:"color"`
	ShowBanner bool   `yaml:"show_banner"`
}

// Default returns the built-in configuration used when no .lumenrc.yaml is
// found, matching the values the interpreter shipped with before a config
// file existed at all.
func Default() *Config {
	return &Config{
		Prompt:     defaultPrompt,
		Banner:     defaultBanner,
		Version:    defaultVersion,
		Author:     defaultAuthor,
		License:    defaultLicense,
		Line:       defaultLine,
		Color:      true,
		ShowBanner: true,
	}
}

// Load reads path (typically ".lumenrc.yaml" in the working directory) and
// overlays it on top of Default(). A missing file is not an error: Load
// silently returns the defaults. A present-but-invalid file reports the
// parse error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
