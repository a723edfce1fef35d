package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.workday_widget/workday.toml or OS-specific config dir)
// 3. Project config file (workday.toml or .workday.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cws := &ConfigWithSources{Config: &Config{}, Sources: sources}
	cfg := cws.Config

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. User config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		unknown, err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile)
		if err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 3. Project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		unknown, err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile)
		if err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 4. Environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// 5. CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Derived values and validation
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	fields := []string{
		"data_dir",
		"tick_interval",
		"on_corrupt",
		"notes_collapsed",
		"focus_mode",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_keep",
	}
	for _, key := range sortedKeys(DefaultContexts()) {
		fields = append(fields, "contexts."+key)
	}
	return fields
}

// loadConfigFile decodes a TOML file and applies only the keys it defines,
// so a partial file never resets earlier values. It returns the keys that
// no field consumed.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) ([]string, error) {
	var fileCfg Config
	md, err := toml.DecodeFile(path, &fileCfg)
	if err != nil {
		return nil, err
	}

	apply := func(key string, set func()) {
		if !md.IsDefined(key) {
			return
		}
		set()
		if sources != nil {
			sources[key] = source
		}
	}

	apply("data_dir", func() { cfg.DataDir = fileCfg.DataDir })
	apply("tick_interval", func() { cfg.TickInterval = fileCfg.TickInterval })
	apply("on_corrupt", func() { cfg.OnCorrupt = fileCfg.OnCorrupt })
	apply("notes_collapsed", func() { cfg.NotesCollapsed = fileCfg.NotesCollapsed })
	apply("focus_mode", func() { cfg.FocusMode = fileCfg.FocusMode })
	apply("log_level", func() { cfg.LogLevel = fileCfg.LogLevel })
	apply("log_format", func() { cfg.LogFormat = fileCfg.LogFormat })
	apply("log_timestamps", func() { cfg.LogTimestamps = fileCfg.LogTimestamps })
	apply("log_caller", func() { cfg.LogCaller = fileCfg.LogCaller })
	apply("log_keep", func() { cfg.LogKeep = fileCfg.LogKeep })

	if cfg.Contexts == nil {
		cfg.Contexts = ContextsConfig{}
	}
	for _, key := range sortedKeys(fileCfg.Contexts) {
		style := fileCfg.Contexts[key]
		merged := cfg.Contexts[key]
		if md.IsDefined("contexts", key, "label") {
			merged.Label = style.Label
		}
		if md.IsDefined("contexts", key, "color") {
			merged.Color = style.Color
		}
		cfg.Contexts[key] = merged
		if sources != nil {
			sources["contexts."+key] = source
		}
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.DataDir != "" && !filepath.IsAbs(cfg.DataDir) {
		abs, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("resolving data dir: %w", err)
		}
		cfg.DataDir = abs
	}
	if cfg.Contexts == nil {
		cfg.Contexts = DefaultContexts()
	}
	return cfg.Validate()
}

func sortedKeys(m ContextsConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
