package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// EnvPrefix is prepended to every environment override, e.g. BUDGET_STORAGE_PATH.
const EnvPrefix = "BUDGET"

// DefaultDataDir holds the ledger when storage.path is not set.
const DefaultDataDir = "$HOME/.local/share/budget"

// Config is the resolved configuration for one invocation.
type Config struct {
	Storage StorageConfig
	Logging LoggingConfig
	Rules   model.RulesConfig
	Output  OutputConfig
}

// StorageConfig selects where the ledger lives.
type StorageConfig struct {
	Backend string
	Path    string
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Plain bool
}

// SetDefaults registers default values and environment handling on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "json")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.plain", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// LoadEnv reads KEY=value pairs from the given .env files (".env" when none
// are given) into the process environment. Missing files are ignored and
// variables already set are left alone.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves the configuration from v. Rule overrides come from the rules
// section of the config file, BUDGET_RULES_* variables, then ruleFlags
// ("key=value"), each layer replacing the previous.
func Load(v *viper.Viper, ruleFlags []string) (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			Path:    v.GetString("storage.path"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Output: OutputConfig{
			Plain: v.GetBool("output.plain"),
		},
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath(cfg.Storage.Backend)
	}
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	rules, err := loadRules(v, ruleFlags)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules

	return cfg, nil
}

// DefaultStoragePath returns the default ledger location for backend.
func DefaultStoragePath(backend string) string {
	name := "budget.json"
	if backend == "sqlite" {
		name = "budget.db"
	}
	return filepath.Join(DefaultDataDir, name)
}

func loadRules(v *viper.Viper, ruleFlags []string) (model.RulesConfig, error) {
	rules := model.DefaultRules()

	fromConfig := v.GetStringMap("rules")
	for _, key := range model.RuleKeys() {
		if v.IsSet("rules." + key) {
			fromConfig[key] = v.Get("rules." + key)
		}
	}
	rules, err := rules.Apply(fromConfig)
	if err != nil {
		return rules, fmt.Errorf("%w: rules: %w", common.ErrInvalidConfig, err)
	}

	fromFlags, err := ParseRuleFlags(ruleFlags)
	if err != nil {
		return rules, err
	}
	rules, err = rules.Apply(fromFlags)
	if err != nil {
		return rules, fmt.Errorf("%w: --rule: %w", common.ErrInvalidConfig, err)
	}

	return rules, nil
}

// ParseRuleFlags splits "key=value" pairs into an override map for
// RulesConfig.Apply. Values stay strings; Apply coerces them.
func ParseRuleFlags(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: rule override %q must look like key=value", common.ErrInvalidConfig, pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
