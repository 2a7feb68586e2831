package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const FileName = "ping_log.txt"

// Sink is one logical logger fanned out to the console and an append-only
// file under the log directory.
type Sink struct {
	*zap.Logger
	file    *lumberjack.Logger
	console zapcore.WriteSyncer
	// stdout on a terminal rejects fsync; that is not worth reporting.
	ignoreConsoleSync bool
}

func NewLogger(logDir string) (*Sink, error) {
	s, err := newSink(logDir, os.Stdout)
	if err != nil {
		return nil, err
	}
	s.ignoreConsoleSync = true
	return s, nil
}

func newSink(logDir string, console io.Writer) (*Sink, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.TimeKey = "ts"
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	cw := zapcore.AddSync(console)
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(cw), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zap.InfoLevel),
	)
	return &Sink{Logger: zap.New(core), file: file, console: cw}, nil
}

// Close flushes both backends and releases the file.
func (s *Sink) Close() error {
	var err error
	if serr := s.console.Sync(); serr != nil && !s.ignoreConsoleSync {
		err = serr
	}
	return multierr.Append(err, s.file.Close())
}
