// Package config loads client settings from defaults, TOML files, the
// environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada-remote/internal/logging"
)

const (
	DefaultServer = "http://localhost:8080"
	DefaultTheme  = "classic"
	DefaultColor  = "auto"

	userConfigName = "config.toml"
	appDirName     = "tada"
)

var projectConfigNames = []string{"tada.toml", ".tada.toml"}

// Config is the effective client configuration.
type Config struct {
	Server string    `toml:"server"`
	Theme  string    `toml:"theme"`
	Color  string    `toml:"color"` // auto, always, never
	Group  bool      `toml:"group"` // ls groups pending/done
	Log    LogConfig `toml:"log"`

	// Files lists the config files that were applied, in order.
	Files []string `toml:"-"`
}

// LogConfig configures the diagnostic channel.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// LoggingOptions converts the log section for the logging package.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Log.Level
	opts.Format = c.Log.Format
	return opts
}

func setDefaults(cfg *Config) {
	cfg.Server = DefaultServer
	cfg.Theme = DefaultTheme
	cfg.Color = DefaultColor
	cfg.Log = LogConfig{Level: "info", Format: "text"}
}

// flagValues holds the root flags. Only flags the user actually set
// override lower layers.
type flagValues struct {
	config    string
	server    string
	theme     string
	color     string
	logLevel  string
	logFormat string
	logFile   string
	group     bool
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.config, "config", "", "path to a TOML config file (skips discovery)")
	fs.StringVar(&v.server, "server", "", "base URL of the todo server (default "+DefaultServer+")")
	fs.StringVar(&v.theme, "theme", "", "output theme: classic, neon, mono")
	fs.StringVar(&v.color, "color", "", "color output: auto, always, never")
	fs.StringVar(&v.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")
	fs.StringVar(&v.logFormat, "log-format", "", "diagnostic log format: text, json, logfmt")
	fs.StringVar(&v.logFile, "log-file", "", "write diagnostics to this file")
	fs.BoolVar(&v.group, "group", false, "group ls output by pending/done")
	return v
}

// Load parses root flags from args and layers configuration in priority order:
//  1. defaults
//  2. user file (<UserConfigDir>/tada/config.toml)
//  3. project file (tada.toml or .tada.toml in the working directory)
//  4. environment (TADA_*)
//  5. flags
//
// When -config is given it replaces steps 2 and 3. The remaining positional
// arguments are left in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	fv := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{}
	setDefaults(cfg)

	if fv.config != "" {
		if err := loadConfigFile(cfg, fv.config); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", fv.config, err)
		}
	} else {
		for _, p := range []string{findUserConfigFile(), findProjectConfigFile()} {
			if p == "" {
				continue
			}
			if err := loadConfigFile(cfg, p); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", p, err)
			}
		}
	}

	loadFromEnv(cfg)
	applyFlags(cfg, fs, fv)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, appDirName, userConfigName)
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if fileExists(name) {
			if abs, err := filepath.Abs(name); err == nil {
				return abs
			}
			return name
		}
	}
	return ""
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TADA_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func applyFlags(cfg *Config, fs *flag.FlagSet, fv *flagValues) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = fv.server
		case "theme":
			cfg.Theme = fv.theme
		case "color":
			cfg.Color = fv.color
		case "log-level":
			cfg.Log.Level = fv.logLevel
		case "log-format":
			cfg.Log.Format = fv.logFormat
		case "log-file":
			cfg.Log.File = fv.logFile
		case "group":
			cfg.Group = fv.group
		}
	})
}

func finalize(cfg *Config) error {
	cfg.Server = strings.TrimRight(strings.TrimSpace(cfg.Server), "/")
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	cfg.Log.File = expandHome(cfg.Log.File)

	var errs []error
	u, err := url.Parse(cfg.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("server: %q is not an http(s) URL", cfg.Server))
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("color: %q (want auto, always or never)", cfg.Color))
	}
	switch cfg.Theme {
	case "classic", "neon", "mono":
	default:
		errs = append(errs, fmt.Errorf("theme: %q (want classic, neon or mono)", cfg.Theme))
	}
	if !logging.ValidLevel(cfg.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: %q", cfg.Log.Level))
	}
	if !logging.ValidFormat(cfg.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: %q", cfg.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
