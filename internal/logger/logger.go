// Package logger builds the process-wide zap logger.
//
// JSON output is used in production or when LOG_FORMAT=json; development
// gets the console encoder. When a log file is configured, entries are also
// written to a size-rotated file.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"task-tracker/internal/config"
)

// Rotation limits for LOG_FILE.
const (
	maxFileSizeMB = 50
	maxBackups    = 5
	maxAgeDays    = 14
)

// New builds a logger from cfg and installs it as the zap global.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	var enc zapcore.Encoder
	if cfg.Log.Format == "json" || cfg.IsProduction() {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if cfg.Log.File != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), level)
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("service", "backend"),
		zap.String("env", cfg.AppEnv),
		zap.String("version", cfg.AppVersion),
	)

	zap.ReplaceGlobals(log)
	return log, nil
}
