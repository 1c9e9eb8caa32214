package main

import (
	"os"

	"github.com/aperrault/stable-matching-suite/pkg/smpconfig"
	"github.com/aperrault/stable-matching-suite/pkg/smplog"
)

func loadConfig() (*smpconfig.Config, error) {
	return smpconfig.Load(cfgFile)
}

func newLogger(cfg *smpconfig.Config) *smplog.Logger {
	level := smplog.Level(cfg.Logging.Level)
	if verbose {
		level = smplog.LevelDebug
	}
	return smplog.New(smplog.Config{
		Level:  level,
		Format: smplog.Format(cfg.Logging.Format),
		Output: os.Stderr,
	})
}
