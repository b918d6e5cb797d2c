package log

import (
	"io"
	"os"
	"strings"

	"github.com/Takashicc/repub/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger starts as a no-op so packages can log before Init runs (tests).
var Logger = zap.NewNop()

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

func Sync() {
	_ = Logger.Sync()
}

// Init replaces Logger with one built from opts. Console output goes to
// stderr, stdout belongs to the command output.
func Init(opts *config.Options) {
	Logger = NewLogger(opts)
}

func NewLogger(opts *config.Options) *zap.Logger {
	var rotationLog *lumberjack.Logger
	if opts.LogFile != "" {
		rotationLog = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    opts.LogFileMaxSize, // megabytes
			MaxBackups: opts.LogFileMaxBackups,
			MaxAge:     opts.LogFileMaxAge, // days
			Compress:   opts.LogCompress,
		}
	}

	return newZap(os.Stderr, rotationLog, parseLevel(opts.LogLevel))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newZap(console io.Writer, rotationLog *lumberjack.Logger, level zapcore.Level) *zap.Logger {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encodeConfig)
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level)

	core := consoleCore
	if rotationLog != nil {
		fileEncoder := zapcore.NewJSONEncoder(encodeConfig)
		rotationCore := zapcore.NewCore(fileEncoder, zapcore.AddSync(rotationLog), level)
		core = zapcore.NewTee(consoleCore, rotationCore)
	}

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
}
