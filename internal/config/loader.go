package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFileName is the config file looked up in the working directory when
// no explicit path is supplied.
const DefaultFileName = ".ai-review.yml"

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	// ConfigPath points at an explicit config file. When empty the loader
	// searches ConfigPaths (then ".") for DefaultFileName.
	ConfigPath  string
	ConfigPaths []string
	EnvPrefix   string
}

// Load returns the merged configuration from defaults, the config file, and
// environment variables. A missing config file is not an error; defaults
// apply.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "AIPR"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	configFile := opts.ConfigPath
	if configFile == "" {
		configFile = locateConfigFile(opts.ConfigPaths)
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", configFile, err)
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings.
func expandEnvVars(cfg Config) Config {
	cfg.AI.Model = expandEnvString(cfg.AI.Model)
	cfg.AI.APIKey = expandEnvString(cfg.AI.APIKey)
	cfg.GitHub.BaseURL = expandEnvString(cfg.GitHub.BaseURL)
	cfg.Repomix.IncludePatterns = expandEnvString(cfg.Repomix.IncludePatterns)
	cfg.Repomix.ExcludePatterns = expandEnvString(cfg.Repomix.ExcludePatterns)
	cfg.HTTP.Timeout = expandEnvString(cfg.HTTP.Timeout)
	cfg.HTTP.InitialBackoff = expandEnvString(cfg.HTTP.InitialBackoff)
	cfg.HTTP.MaxBackoff = expandEnvString(cfg.HTTP.MaxBackoff)
	cfg.Store.Path = expandEnvString(cfg.Store.Path)
	cfg.Output.Directory = expandEnvString(cfg.Output.Directory)
	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)
	cfg.Logging.Format = expandEnvString(cfg.Logging.Format)
	return cfg
}

var (
	bracedVarPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	bareVarPattern   = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
)

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
// Unset variables are left untouched.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	s = bracedVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

func locateConfigFile(paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, DefaultFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("review_focus", []string{
		"code_quality", "architecture", "security", "performance", "maintainability",
	})

	v.SetDefault("ai.model", "claude-3-haiku-20240307")
	v.SetDefault("ai.max_tokens", 4000)
	v.SetDefault("ai.max_context_tokens", 25000)

	v.SetDefault("github.comment_type", "issue")
	v.SetDefault("github.comment_placement", "pr")

	v.SetDefault("repomix.style", "xml")

	v.SetDefault("http.timeout", "120s")
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.initial_backoff", "2s")
	v.SetDefault("http.max_backoff", "32s")
	v.SetDefault("http.backoff_multiplier", 2.0)

	v.SetDefault("store.enabled", true)
	v.SetDefault("store.path", defaultStorePath())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")

	v.SetDefault("redaction.enabled", true)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./reviews.db"
	}
	return filepath.Join(home, ".config", "aipr", "reviews.db")
}
