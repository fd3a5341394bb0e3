package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hikaru/benkyo/internal/achievement"
	"github.com/hikaru/benkyo/internal/catalog"
	"github.com/hikaru/benkyo/internal/config"
	"github.com/hikaru/benkyo/internal/logging"
	"github.com/hikaru/benkyo/internal/progression"
	"github.com/hikaru/benkyo/internal/store"
	"github.com/hikaru/benkyo/internal/tracker"
)

// app bundles everything a command needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *store.Store
	svc    *tracker.Service
	userID string
}

// openApp loads config, opens the store and wires the services. The
// built-in catalog is seeded on first run so a fresh install is usable
// immediately.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Verbose)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := seedIfEmpty(cmd.Context(), st, log); err != nil {
		st.Close()
		return nil, err
	}

	engine := progression.NewEngine(st, log)
	engine.SetEvaluator(achievement.NewEvaluator(st, log))

	userID := cfg.UserID
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		userID = u
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		svc:    tracker.New(st, engine, log),
		userID: userID,
	}, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.log.Sync()
}

func seedIfEmpty(ctx context.Context, st *store.Store, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := st.Repos().Catalog.CountSubjects(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	f, err := catalog.Default()
	if err != nil {
		return err
	}
	sum, err := catalog.Seed(ctx, st, f)
	if err != nil {
		return err
	}
	log.Info("seeded built-in catalog",
		zap.Int("subjects", sum.Subjects),
		zap.Int("topics", sum.Topics),
		zap.Int("titles", sum.Titles),
		zap.Int("badges", sum.Badges))
	return nil
}
