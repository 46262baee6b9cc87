// Package config loads pep263 settings from project files and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pep263/internal/files/filesystem"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// ErrConfigNotFound is returned when no project file carries pep263 settings.
var ErrConfigNotFound = errors.New("config file not found")

// ProjectConfig represents pep263 settings. Zero values mean "not set".
type ProjectConfig struct {
	Append   string   `yaml:"append" toml:"append"`
	Force    bool     `yaml:"force" toml:"force"`
	Suffixes []string `yaml:"suffixes" toml:"suffixes"`
	Exclude  []string `yaml:"exclude" toml:"exclude"`
	Jobs     int      `yaml:"jobs" toml:"jobs"`

	// Source is the file the settings were read from.
	Source string `yaml:"-" toml:"-"`
}

const (
	// ConfigFileName is the dedicated settings file.
	ConfigFileName = ".pep263.yaml"
	// PyprojectFileName holds settings in the [tool.pep263] table.
	PyprojectFileName = "pyproject.toml"
	// SetupCfgFileName holds settings in the [pep263] section.
	SetupCfgFileName = "setup.cfg"
)

// Environment variables that override project files.
const (
	EnvSuffixes = "PEP263_SUFFIXES"
	EnvExclude  = "PEP263_EXCLUDE"
	EnvJobs     = "PEP263_JOBS"
)

// Load reads settings from the first project file in sourcePath that has them.
func Load(sourcePath string) (*ProjectConfig, error) {
	return LoadFrom(filesystem.NewOSFileSystem(), sourcePath)
}

// LoadFrom is Load with a custom filesystem provider. Files are tried in the
// order .pep263.yaml, pyproject.toml, setup.cfg. A pyproject.toml without a
// [tool.pep263] table or a setup.cfg without a [pep263] section is passed
// over. Unparseable files fail with pep263.ErrInvalidConfig.
func LoadFrom(fsProvider filesystem.FileSystemProvider, sourcePath string) (*ProjectConfig, error) {
	loaders := []struct {
		name  string
		parse func([]byte) (*ProjectConfig, error)
	}{
		{ConfigFileName, parseYAML},
		{PyprojectFileName, parsePyproject},
		{SetupCfgFileName, parseSetupCfg},
	}

	for _, l := range loaders {
		configPath := filepath.Join(sourcePath, l.name)
		data, err := fsProvider.ReadFile(configPath)
		if err != nil {
			if errors.Is(err, pep263.ErrNotFound) || errors.Is(err, pep263.ErrIsADirectory) || errors.Is(err, pep263.ErrNotADirectory) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
		}

		cfg, err := l.parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", pep263.ErrInvalidConfig, configPath, err)
		}
		if cfg == nil {
			continue
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		cfg.Source = configPath
		return cfg, nil
	}
	return nil, ErrConfigNotFound
}

// Validate checks values that can be checked without the rest of the run.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs cannot be negative: %w", pep263.ErrInvalidConfig))
	}
	if c.Force && c.Append == "" {
		errs = append(errs, fmt.Errorf("force requires append: %w", pep263.ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

func parseYAML(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parsePyproject(data []byte) (*ProjectConfig, error) {
	var doc struct {
		Tool struct {
			Pep263 *ProjectConfig `toml:"pep263"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Tool.Pep263, nil
}

func parseSetupCfg(data []byte) (*ProjectConfig, error) {
	file, err := ini.LoadSources(ini.LoadOptions{AllowPythonMultilineValues: true}, data)
	if err != nil {
		return nil, err
	}
	if !file.HasSection("pep263") {
		return nil, nil
	}
	section := file.Section("pep263")

	cfg := &ProjectConfig{
		Append:   section.Key("append").String(),
		Suffixes: splitList(section.Key("suffixes").String()),
		Exclude:  splitList(section.Key("exclude").String()),
	}
	if section.HasKey("force") {
		if cfg.Force, err = section.Key("force").Bool(); err != nil {
			return nil, fmt.Errorf("force: %w", err)
		}
	}
	if section.HasKey("jobs") {
		if cfg.Jobs, err = section.Key("jobs").Int(); err != nil {
			return nil, fmt.Errorf("jobs: %w", err)
		}
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with PEP263_* variables found through lookup.
func ApplyEnv(cfg *ProjectConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSuffixes); ok && v != "" {
		cfg.Suffixes = splitList(v)
	}
	if v, ok := lookup(EnvExclude); ok && v != "" {
		cfg.Exclude = splitList(v)
	}
	if v, ok := lookup(EnvJobs); ok && v != "" {
		jobs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || jobs < 0 {
			return fmt.Errorf("%s=%q is not a valid job count: %w", EnvJobs, v, pep263.ErrInvalidConfig)
		}
		cfg.Jobs = jobs
	}
	return nil
}

// splitList splits a comma or newline separated list, dropping blanks.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
