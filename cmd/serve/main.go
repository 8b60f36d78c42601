package main

import (
	"log"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/config"
	"github.com/zhezzma/hf-spaces-monitor/internal/history"
	"github.com/zhezzma/hf-spaces-monitor/internal/httpapi"
	"github.com/zhezzma/hf-spaces-monitor/internal/logging"
	"github.com/zhezzma/hf-spaces-monitor/internal/report"
)

// Local preview of the generated dashboard. Reads the same artifacts the
// monitor writes; needs no token.
func main() {
	cfg := config.Load()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if created, err := report.Ensure(cfg.OutputDir); err != nil {
		log.Fatal(err)
	} else if created {
		logger.Info("report_page_created", zap.String("dir", cfg.OutputDir))
	}

	store := history.NewStore(logger, filepath.Join(cfg.OutputDir, "data.js"))
	api := httpapi.NewServer(logger, cfg.OutputDir, store)

	logger.Info("serve_listen", zap.String("addr", cfg.Addr), zap.String("dir", cfg.OutputDir))
	if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
		log.Fatal(err)
	}
}
