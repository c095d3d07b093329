// scenecheck loads a scene without opening a window, steps it until every
// resource has loaded and prints a YAML report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/internal/viewer"
)

var (
	flagTimeout = flag.Duration("timeout", 30*time.Second, "Give up when loads take longer")
	flagFrames  = flag.Uint64("frames", 60, "Minimum number of frames to step")
	flagRate    = flag.Int("rate", 60, "Frames per second")
	flagStrict  = flag.Bool("strict", false, "Exit non-zero when any resource failed to load")
	flagWrite   = flag.String("write-config", "", "Write the effective config to this path")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the report.
	opts := logger.Options{Level: cfg.Logging.Level, Console: os.Stderr}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWith(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagWrite != "" {
		if err := cfg.SaveTo(*flagWrite); err != nil {
			logger.Error("writing config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", *flagWrite))
	}

	if *flagRate <= 0 {
		*flagRate = 60
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *flagTimeout)
	defer cancel()

	report, err := viewer.Check(ctx, cfg, *flagFrames, time.Second/time.Duration(*flagRate))
	if report != nil {
		out, merr := yaml.Marshal(report)
		if merr != nil {
			logger.Error("encoding report", zap.Error(merr))
			os.Exit(1)
		}
		fmt.Print(string(out))
	}

	switch {
	case errors.Is(err, viewer.ErrNotSettled):
		logger.Warn("scene check timed out", zap.Error(err))
		os.Exit(2)
	case err != nil:
		logger.Error("scene check failed", zap.Error(err))
		os.Exit(1)
	case *flagStrict && len(report.Errors) > 0:
		os.Exit(3)
	}
}
