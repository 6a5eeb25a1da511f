package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces configuration environment variables
const EnvPrefix = "RULEBOOK_"

// ProjectConfigFile is looked up in the project directory
const ProjectConfigFile = ".rulebook.toml"

var sections = map[string]bool{
	"rules":     true,
	"templates": true,
	"matcher":   true,
	"output":    true,
	"server":    true,
}

// LoadOptions selects the files and overrides applied on top of the defaults
type LoadOptions struct {
	// UserConfigFiles are tried in order; the first that exists is loaded
	UserConfigFiles []string
	// ProjectDir is searched for .rulebook.toml, default "."
	ProjectDir string
	// ConfigFile replaces the project config lookup when set and must exist
	ConfigFile string
	// Overrides are flat dotted keys, applied last
	Overrides map[string]interface{}
}

// Load builds the effective configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	for _, path := range opts.UserConfigFiles {
		if !fileExists(path) {
			continue
		}
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded user config")
		break
	}

	// 3. Project config or explicit file
	if opts.ConfigFile != "" {
		if !fileExists(opts.ConfigFile) {
			return nil, errors.Newf(errors.ErrConfigLoad, "config file not found: %s", opts.ConfigFile).
				WithDetail(errors.DetailPath, opts.ConfigFile)
		}
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", opts.ConfigFile).Msg("Loaded config file")
	} else {
		dir := opts.ProjectDir
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, ProjectConfigFile)
		if fileExists(path) {
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", path).Msg("Loaded project config")
		}
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	return unmarshal(k)
}

// Default returns the embedded defaults alone, without files, environment
// or overrides
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		parser = toml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}

// envKey maps RULEBOOK_RULES_FILE_SUFFIX to rules.file_suffix. Variables
// outside the known sections are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || !sections[section] || rest == "" {
		return ""
	}
	return section + "." + rest
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
