package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"github.com/pingcap/errors"
	"github.com/spf13/pflag"
)

const envPrefix = "JOINFINDER_"

type NormalizeConfig struct {
	Rules []Rule `toml:"rule"`
}

// Config carries everything a run needs; nothing is read from globals.
type Config struct {
	SQL         string          `toml:"sql"`
	SQLJSONFile string          `toml:"sql-json-file"`
	OutputFile  string          `toml:"output-file"`
	ErrorFile   string          `toml:"error-file"`
	LogFile     string          `toml:"log-file"`
	LogLevel    string          `toml:"log-level"`
	SQLMode     string          `toml:"sql-mode"`
	LuaScript   string          `toml:"lua-script"`
	DSN         string          `toml:"dsn"`
	ViewQuery   string          `toml:"view-query"`
	Force       bool            `toml:"force"`
	Normalize   NormalizeConfig `toml:"normalize"`
}

func DefaultConfig() Config {
	return Config{
		OutputFile: "./non-ansi-sqls.json",
		ErrorFile:  "./error-sqls.json",
		LogFile:    "./dremio-non-ansi-join-finder.log",
		LogLevel:   "info",
		SQLMode:    DefaultSQLMode,
		ViewQuery:  DefaultViewQuery,
	}
}

// loadConfigFromFile overlays the TOML file onto cfg.
func loadConfigFromFile(path string, cfg *Config) error {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return errors.Annotatef(err, "read config file %s", path)
	}
	var file Config
	if err := tree.Unmarshal(&file); err != nil {
		return errors.Annotatef(err, "decode config file %s", path)
	}
	mergeConfig(cfg, &file)
	return nil
}

// mergeConfig copies the non-zero fields of src onto dst.
func mergeConfig(dst, src *Config) {
	pairs := []struct{ dst, src *string }{
		{&dst.SQL, &src.SQL},
		{&dst.SQLJSONFile, &src.SQLJSONFile},
		{&dst.OutputFile, &src.OutputFile},
		{&dst.ErrorFile, &src.ErrorFile},
		{&dst.LogFile, &src.LogFile},
		{&dst.LogLevel, &src.LogLevel},
		{&dst.SQLMode, &src.SQLMode},
		{&dst.LuaScript, &src.LuaScript},
		{&dst.DSN, &src.DSN},
		{&dst.ViewQuery, &src.ViewQuery},
	}
	for _, p := range pairs {
		if *p.src != "" {
			*p.dst = *p.src
		}
	}
	if src.Force {
		dst.Force = true
	}
	dst.Normalize.Rules = append(dst.Normalize.Rules, src.Normalize.Rules...)
}

// loadConfigFromEnv overlays JOINFINDER_* variables, loading .env first if present.
func loadConfigFromEnv(envFile string, cfg *Config) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return errors.Annotatef(err, "load %s", envFile)
		}
	}
	strs := map[string]*string{
		"SQL_JSON_FILE": &cfg.SQLJSONFile,
		"OUTPUT_FILE":   &cfg.OutputFile,
		"ERROR_FILE":    &cfg.ErrorFile,
		"LOG_FILE":      &cfg.LogFile,
		"LOG_LEVEL":     &cfg.LogLevel,
		"SQL_MODE":      &cfg.SQLMode,
		"LUA_SCRIPT":    &cfg.LuaScript,
		"DSN":           &cfg.DSN,
		"VIEW_QUERY":    &cfg.ViewQuery,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "FORCE"); ok {
		force, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Annotatef(err, "invalid %sFORCE", envPrefix)
		}
		cfg.Force = force
	}
	return nil
}

// applyFlags overlays the flags the user set explicitly.
func applyFlags(flags *pflag.FlagSet, cfg *Config) error {
	strs := map[string]*string{
		"sql":           &cfg.SQL,
		"sql-json-file": &cfg.SQLJSONFile,
		"output-file":   &cfg.OutputFile,
		"error-file":    &cfg.ErrorFile,
		"log-file":      &cfg.LogFile,
		"log-level":     &cfg.LogLevel,
		"sql-mode":      &cfg.SQLMode,
		"lua-script":    &cfg.LuaScript,
		"dsn":           &cfg.DSN,
		"view-query":    &cfg.ViewQuery,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return errors.Trace(err)
		}
		*dst = v
	}
	if flags.Changed("force") {
		force, err := flags.GetBool("force")
		if err != nil {
			return errors.Trace(err)
		}
		cfg.Force = force
	}
	return nil
}

// LoadConfig resolves defaults, config file, environment and flags, in that order.
func LoadConfig(flags *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	configFile, err := flags.GetString("config")
	if err != nil {
		return cfg, errors.Trace(err)
	}
	if configFile != "" {
		if err := loadConfigFromFile(configFile, &cfg); err != nil {
			return cfg, err
		}
	}
	envFile, err := flags.GetString("env-file")
	if err != nil {
		return cfg, errors.Trace(err)
	}
	if err := loadConfigFromEnv(envFile, &cfg); err != nil {
		return cfg, err
	}
	if err := applyFlags(flags, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
