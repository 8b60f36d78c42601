package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/config"
	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
	"github.com/zhezzma/hf-spaces-monitor/internal/history"
	"github.com/zhezzma/hf-spaces-monitor/internal/logging"
	"github.com/zhezzma/hf-spaces-monitor/internal/notify"
	"github.com/zhezzma/hf-spaces-monitor/internal/probe"
	"github.com/zhezzma/hf-spaces-monitor/internal/rebuild"
	"github.com/zhezzma/hf-spaces-monitor/internal/report"
	"github.com/zhezzma/hf-spaces-monitor/internal/runner"
)

const requestTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}

	code := run(cfg, logger)

	if err := writeGithubOutput(code); err != nil {
		logger.Warn("github_output_failed", zap.Error(err))
	}
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg *config.Config, logger *zap.Logger) int {
	logger.Info("monitor_start",
		zap.String("owner", cfg.Owner),
		zap.Int("spaces", len(cfg.Spaces)),
		zap.Duration("global_timeout", cfg.GlobalTimeout),
	)

	ctx := context.Background()

	spaces := make([]domain.SpaceName, 0, len(cfg.Spaces))
	for _, s := range cfg.Spaces {
		spaces = append(spaces, domain.SpaceName(s))
	}

	r := runner.New(
		logger,
		probe.NewProber(logger, requestTimeout),
		rebuild.New(logger, cfg.Token),
		cfg.Owner,
		cfg.GlobalTimeout,
	)
	outcomes := r.RunAll(ctx, spaces)

	store := history.NewStore(logger, filepath.Join(cfg.OutputDir, "data.js"))
	h := store.Load()
	h.Append(history.TimestampKey(time.Now()), history.BatchFrom(outcomes))

	var persistErr error
	persistErr = multierr.Append(persistErr, store.Save(h))
	if _, err := report.Ensure(cfg.OutputDir); err != nil {
		persistErr = multierr.Append(persistErr, err)
	}
	if persistErr != nil {
		logger.Error("persist_failed", zap.Error(persistErr))
		return 1
	}

	code, succeeded := 0, 0
	for _, o := range outcomes {
		if o.Failed() {
			code = 1
		}
		if o.Succeeded != nil && *o.Succeeded {
			succeeded++
		}
	}

	if code != 0 {
		if title, text, ok := notify.FailureSummary(cfg.Owner, outcomes); ok {
			if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
				if err := s.Send(ctx, title, text); err != nil {
					logger.Warn("notify_failed", zap.Error(err))
				}
			}
		}
	}

	logger.Info("monitor_done",
		zap.Int("succeeded", succeeded),
		zap.Int("checked", len(outcomes)),
		zap.Int("exit_code", code),
	)
	return code
}

// writeGithubOutput appends the CI output variable when running under
// GitHub Actions.
func writeGithubOutput(code int) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "exit_code=%d\n", code)
	return err
}
