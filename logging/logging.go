// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Name  string
	Level string
	// Directory receives a rotating [Name].log file. Empty disables file
	// logging.
	Directory string
	// DisableDisplaying mutes the console core.
	DisableDisplaying bool

	MaxSize  int // megabytes
	MaxAge   int // days
	MaxFiles int
	Compress bool
}

func NewConfig(name, level, directory string) Config {
	return Config{
		Name:      name,
		Level:     level,
		Directory: directory,
		MaxSize:   8,
		MaxAge:    7,
		MaxFiles:  4,
	}
}

// New builds a logger with a colored console core on stderr and, when a
// directory is configured, a JSON file core rotated by lumberjack.
func New(config Config) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	cores := []zapcore.Core{}
	if !config.DisableDisplaying {
		consoleEnc := zap.NewDevelopmentEncoderConfig()
		consoleEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEnc),
			zapcore.Lock(os.Stderr),
			atomicLevel,
		))
	}

	var closer io.Closer = nopCloser{}
	if config.Directory != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(config.Directory, config.Name+".log"),
			MaxSize:    config.MaxSize,  // megabytes
			MaxAge:     config.MaxAge,   // days
			MaxBackups: config.MaxFiles, // files
			Compress:   config.Compress,
		}
		closer = rw
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rw),
			atomicLevel,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), closer, nil
	}
	return zap.New(zapcore.NewTee(cores...)).Named(config.Name), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
