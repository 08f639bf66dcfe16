package cmd

import (
	"log"
	"os"
	"path/filepath"

	"github.com/etnz/cryptofolio/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLog routes the standard logger to the configured file, rotated by
// size. A relative file is relative to the data directory. Without a file,
// logs go to stderr.
func setupLog(cfg *config.Config) (func() error, error) {
	if cfg.Log.File == "" {
		log.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}
	file := cfg.Log.File
	if !filepath.IsAbs(file) {
		file = filepath.Join(cfg.DataDir, file)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, err
	}
	out := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	log.SetOutput(out)
	return func() error {
		log.SetOutput(os.Stderr)
		return out.Close()
	}, nil
}
