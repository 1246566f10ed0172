package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/nable/internal/config"
	"github.com/abhisek/nable/internal/engine"
	"github.com/abhisek/nable/internal/logger"
	"github.com/abhisek/nable/internal/store"
)

// env bundles what every learner command needs.
type env struct {
	cfg *config.Config
	log *logger.Logger
	eng *engine.Engine
	st  *store.Store
}

// openEnv loads configuration, builds the engine and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, err
	}
	if mode, _ := cmd.Flags().GetString("log-mode"); mode != "" {
		cfg.Log.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logOpts := []logger.Option{logger.WithHashSalt(cfg.Log.HashSalt)}
	if !cfg.Log.HashIDs {
		logOpts = append(logOpts, logger.WithoutHashing())
	}
	log, err := logger.New(cfg.Log.Mode, logOpts...)
	if err != nil {
		return nil, err
	}
	log = log.With("command", cmd.Name())

	eng, err := engine.New(cfg.Engine, engine.WithLogger(log))
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	return &env{cfg: cfg, log: log, eng: eng, st: st}, nil
}

// configPath returns --config, falling back to the default location.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func (e *env) Close() {
	if err := e.st.Close(); err != nil {
		e.log.Error("close store", "error", err)
	}
	e.log.Sync()
}

// loadState returns the learner's state and whether it was stored before.
func (e *env) loadState(ctx context.Context, learnerID string) (engine.LearnerState, bool, error) {
	doc, err := e.st.StateRepo().Load(ctx, learnerID)
	if err != nil {
		return engine.LearnerState{}, false, err
	}
	return e.eng.LoadStateJSON(learnerID, doc), doc != nil, nil
}

func (e *env) saveState(ctx context.Context, state engine.LearnerState) error {
	return e.saveStateTo(ctx, e.st.StateRepo(), state)
}

// saveStateTo writes state through repo, which may be bound to a transaction.
func (e *env) saveStateTo(ctx context.Context, repo store.StateRepo, state engine.LearnerState) error {
	doc, err := json.Marshal(e.eng.Stored(state))
	if err != nil {
		return fmt.Errorf("marshal learner state: %w", err)
	}
	return repo.Save(ctx, state.LearnerID, doc)
}

// requireState loads a learner that must already exist.
func (e *env) requireState(ctx context.Context, learnerID string) (engine.LearnerState, error) {
	state, found, err := e.loadState(ctx, learnerID)
	if err != nil {
		return engine.LearnerState{}, err
	}
	if !found {
		return engine.LearnerState{}, fmt.Errorf("unknown learner %q (run `nable init %s` first)", learnerID, learnerID)
	}
	return state, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
