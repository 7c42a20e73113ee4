package cli

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
	"github.com/Makepad-fr/tada/internal/tasklist"
	"github.com/Makepad-fr/tada/internal/ui"
)

// defaultLogFile is used by the TUI when no log file is configured.
const defaultLogFile = "tada.log"

type runner struct {
	cfg    *config.Config
	opt    Options
	logger *log.Logger
}

// stderrLogger returns the CLI logger, built on first use.
func (r *runner) stderrLogger() *log.Logger {
	if r.logger == nil {
		opts := logging.DefaultOptions()
		opts.Level = r.cfg.Level()
		r.logger = logging.New(r.opt.Stderr, opts)
	}
	return r.logger
}

// openStore opens the configured backend, or returns the override.
func openStore(cfg *config.Config, override store.KV, logger *log.Logger) (store.KV, io.Closer, error) {
	if override != nil {
		return override, nopCloser{}, nil
	}
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlitestore.Open(cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StoreMemory:
		s := memstore.New()
		return s, s, nil
	default:
		s, err := jsonstore.Open(cfg.DataPath, jsonstore.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened json store", "path", s.Path())
		return s, s, nil
	}
}

// withManager opens the store, loads the task list and runs fn.
func (r *runner) withManager(logger *log.Logger, fn func(*tasklist.Manager) int) int {
	kv, closer, err := openStore(r.cfg, r.opt.Store, logger)
	if err != nil {
		ui.Fail(r.opt.Stderr, fmt.Sprintf("open %s store: %v", r.cfg.Store, err))
		return 1
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}()

	mgr := tasklist.New(kv, tasklist.WithLogger(logger))
	if err := mgr.Load(); err != nil {
		ui.Fail(r.opt.Stderr, "load: "+err.Error())
		return 1
	}
	return fn(mgr)
}

// fetcher returns the override or a client for url.
func (r *runner) fetcher(url string, logger *log.Logger) ui.Fetcher {
	if r.opt.Fetcher != nil {
		return r.opt.Fetcher
	}
	if url == "" {
		url = r.cfg.RemoteURL
	}
	if url == "" {
		url = remote.DefaultURL
	}
	hc := &http.Client{Timeout: r.cfg.Timeout()}
	return remote.NewClient(url, remote.WithHTTPClient(hc), remote.WithLogger(logger))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (r *runner) logFile() string {
	if r.cfg.LogFile != "" {
		return r.cfg.LogFile
	}
	return filepath.Join(r.cfg.DataDir, defaultLogFile)
}
