package config

import "runtime"

const (
	defaultLogFile           = ""
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultCharList          = "chars.txt"
	defaultCacheDSN          = ""
	defaultFixOutputDir      = "output"
)

// Why use mapstructure instead of json: viper decodes through mapstructure,
// json tags are not recognized.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to, empty disables file logging
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// WorkerPoolSize is the number of archives processed in parallel
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	// CharList is the file listing substrings removed from titles
	CharList string `mapstructure:"char_list"`
	// CacheDSN is the sqlite scan cache, empty disables it
	CacheDSN string `mapstructure:"cache_dsn"`
	// FixOutputDir is the directory, relative to the input, that fixed books are written to
	FixOutputDir string `mapstructure:"fix_output_dir"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		WorkerPoolSize:    runtime.NumCPU(),
		CharList:          defaultCharList,
		CacheDSN:          defaultCacheDSN,
		FixOutputDir:      defaultFixOutputDir,
	}
	return Opts
}
