package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "gdlookup"
	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "GDLOOKUP"
	// ConfigFileName is the config file looked up in ConfigDir.
	ConfigFileName = "config.cue"
)

//go:embed config_schema.cue
var configSchema string

// Config holds resolved settings.
type Config struct {
	InstallPath string `mapstructure:"install_path"`
	Format      string `mapstructure:"format"`
	Verbose     bool   `mapstructure:"verbose"`
	NoColor     bool   `mapstructure:"no_color"`
	Suggestions int    `mapstructure:"suggestions"`

	// File is the config file that was read, or "".
	File string `mapstructure:"-"`

	// expansion is set only when some source names an index.
	expansion *int
}

// ExpansionIndex returns the selected pack index, or nil for all packs.
// An explicit value is returned as given, even when it names no pack.
func (c *Config) ExpansionIndex() *int {
	if c.expansion == nil {
		return nil
	}
	i := *c.expansion
	return &i
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:      "text",
		Suggestions: 5,
	}
}

// FileError reports a config file that could not be read or failed
// validation.
type FileError struct {
	Path  string
	Cause error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Cause)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ConfigFile is an explicit config path; it must exist.
	ConfigFile string
	// ConfigDir overrides ConfigDir() for the default file.
	ConfigDir string
	// Flags are bound by name: install-path, xpac, format, verbose,
	// no-color. Missing flags are skipped.
	Flags *pflag.FlagSet
}

// flagKeys maps viper keys to flag names.
var flagKeys = map[string]string{
	"install_path": "install-path",
	"xpac":         "xpac",
	"format":       "format",
	"verbose":      "verbose",
	"no_color":     "no-color",
}

// Load resolves settings from every source.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("install_path", defaults.InstallPath)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("suggestions", defaults.Suggestions)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path, err := configFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, &FileError{Path: path, Cause: err}
		}
	}

	if opts.Flags != nil {
		for key, name := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Unchanged flags do not count as set, so their defaults never select
	// a pack.
	if v.IsSet("xpac") {
		var xpac int
		if err := v.UnmarshalKey("xpac", &xpac); err != nil {
			return nil, fmt.Errorf("invalid xpac: %w", err)
		}
		cfg.expansion = &xpac
	}
	cfg.File = path
	return &cfg, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/gdlookup, or ~/.config/gdlookup.
//
//nolint:revive // ConfigDir is clearer than Dir at call sites
func ConfigDir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName), nil
}

func configFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return "", &FileError{Path: opts.ConfigFile, Cause: err}
		}
		return opts.ConfigFile, nil
	}

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			// No home directory means no default file.
			return "", nil
		}
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", &FileError{Path: path, Cause: err}
	}
	return path, nil
}

// loadCUEIntoViper parses a CUE file, validates it against #Config and
// merges it into v below env and flags.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return userValue.Err()
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return err
	}
	return v.MergeConfigMap(configMap)
}
