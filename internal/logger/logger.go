// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// The gateway writes lifecycle and error events to one JSON log at the
// configured path; rotation, compression, and retention are handled by
// Lumberjack, so no external log-rotate job is required.  When the
// logging bundle enables the console sink, the same events are teed,
// colorized, to stdout at the console's own level.
//
// Usage
// -----
//
//	log, err := logger.New(set.Logging(), set.Root())
//	if err != nil { … }
//	log.Infow("listener online", "port", 8443)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Errors are written to the same sink via `ErrorOutput`.
// • Oxford commas, two spaces after periods.
package logger

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AdeptTravel/adept-gateway/internal/options"
)

// New builds a *zap.SugaredLogger from the logging bundle.  The file
// sink always exists; a console sink is attached only when the bundle
// carries one.  The logger is installed as the process-wide default via
// zap.ReplaceGlobals.
func New(opts *options.Logging, rootDir string) (*zap.SugaredLogger, error) {
	path := opts.File.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 7,  // keep last seven files
		MaxAge:     14, // days
		Compress:   true,
	}

	fileLevel, err := zapcore.ParseLevel(opts.File.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(fileSink),
			fileLevel,
		),
	}

	if opts.Console != nil {
		consoleLevel, err := zapcore.ParseLevel(opts.Console.Level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			consoleLevel,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	// Make this the global logger so zap.L() works everywhere after startup.
	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "file", path, "console", opts.Console != nil)
	return z, nil
}
