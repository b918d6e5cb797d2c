package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "REPUB"

var Opts *Options

// GetConfig returns the default options with REPUB_* environment overrides applied.
func GetConfig() (*Options, error) {
	return load("")
}

// ParseFile reads the config file on top of the defaults. Environment
// variables still take precedence over the file.
func ParseFile(file string) (*Options, error) {
	// Check if file exists
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}
	return load(file)
}

func load(file string) (*Options, error) {
	opts := GetDefaultOptions()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v, opts)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", file)
		}
	}

	if err := v.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	if opts.WorkerPoolSize < 1 {
		opts.WorkerPoolSize = 1
	}

	Opts = opts
	return Opts, nil
}

// setDefaults registers every key so AutomaticEnv can see it.
func setDefaults(v *viper.Viper, opts *Options) {
	v.SetDefault("log_file", opts.LogFile)
	v.SetDefault("log_level", opts.LogLevel)
	v.SetDefault("log_file_max_size", opts.LogFileMaxSize)
	v.SetDefault("log_file_max_backups", opts.LogFileMaxBackups)
	v.SetDefault("log_file_max_age", opts.LogFileMaxAge)
	v.SetDefault("log_compress", opts.LogCompress)
	v.SetDefault("worker_pool_size", opts.WorkerPoolSize)
	v.SetDefault("char_list", opts.CharList)
	v.SetDefault("cache_dsn", opts.CacheDSN)
	v.SetDefault("fix_output_dir", opts.FixOutputDir)
}
