package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	httpadapter "sanguo/internal/adapter/http"
	staticlore "sanguo/internal/adapter/lore/static"
	metricsinmem "sanguo/internal/adapter/metrics/inmemory"
	filerepo "sanguo/internal/adapter/repo/file"
	gormrepo "sanguo/internal/adapter/repo/gorm"
	"sanguo/internal/adapter/repo/memory"
	"sanguo/internal/app/action"
	"sanguo/internal/app/lore"
	"sanguo/internal/app/observe"
	"sanguo/internal/app/ports"
	"sanguo/internal/app/replay"
	"sanguo/internal/app/status"
	"sanguo/internal/domain/retrieval"
	"sanguo/internal/platform/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	store := filerepo.NewWorldStateStore(cfg.StatePath, filerepo.WithLogger(logger))
	actionLog := mustBuildActionLog(cfg)
	lexicon, err := loadLexicon(cfg)
	if err != nil {
		log.Fatalf("load lexicon: %v", err)
	}
	kpiRecorder := metricsinmem.NewRecorder()

	h := httpadapter.Handler{
		ActionUC: action.UseCase{
			TxManager: memory.NewTxManager(),
			Store:     store,
			ActionLog: actionLog,
			Metrics:   kpiRecorder,
			Logger:    logger,
			Now:       time.Now,
		},
		StatusUC:  status.UseCase{Store: store},
		ObserveUC: observe.UseCase{Store: store},
		ReplayUC:  replay.UseCase{ActionLog: actionLog},
		LoreUC: lore.UseCase{
			Books:       staticlore.Provider{Root: cfg.LoreRoot},
			Store:       store,
			Lexicon:     lexicon,
			DefaultBook: cfg.LoreBook,
		},
		KPI:         kpiRecorder,
		AllowOrigin: cfg.CORSOrigin,
	}

	// Touch the state once so a missing or corrupt file is repaired at boot.
	if resp, _ := h.StatusUC.Execute(context.Background()); len(resp.IntegrityIssues) > 0 {
		logger.Warn("world state has integrity issues", "issues", resp.IntegrityIssues)
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	logger.Info("sanguo server listening", "addr", cfg.HTTPAddr, "state", cfg.StatePath, "postgres", cfg.UsePostgres())
	s.Spin()
}

// mustBuildActionLog keeps the audit trail in Postgres when a DSN is set and
// in memory otherwise.
func mustBuildActionLog(cfg config.Config) ports.ActionLogRepository {
	if !cfg.UsePostgres() {
		return memory.NewActionLogRepo()
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, os.DirFS(cfg.MigrationsDir)); err != nil {
		log.Fatalf("apply migrations from %s: %v", cfg.MigrationsDir, err)
	}
	return gormrepo.NewActionLogRepo(db)
}

// loadLexicon reads the character lexicon. A missing file at the default
// location means an empty lexicon; an explicitly configured one must exist.
func loadLexicon(cfg config.Config) (retrieval.Lexicon, error) {
	f, err := os.Open(cfg.LexiconFile())
	if err != nil {
		if cfg.LexiconPath == "" && errors.Is(err, fs.ErrNotExist) {
			return retrieval.NewLexicon(nil), nil
		}
		return retrieval.Lexicon{}, err
	}
	defer f.Close()
	return retrieval.LoadLexicon(f)
}
