// Package app is the host of the quiz engine. It wires the configuration,
// the content catalog and a persistence backend to an engine, hydrates the
// engine on open and saves after every mutating call.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/quizcore/internal/config"
	"github.com/abhisek/quizcore/internal/content"
	"github.com/abhisek/quizcore/internal/engine"
	"github.com/abhisek/quizcore/internal/persist"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/store"
	"github.com/abhisek/quizcore/internal/store/memory"
	"github.com/abhisek/quizcore/internal/store/redis"
	"github.com/abhisek/quizcore/internal/unlock"
)

// ErrQuizLocked is returned when playing a quiz that is still locked.
var ErrQuizLocked = errors.New("quiz is locked")

// SaveWarning reports that a call succeeded in memory but its result could
// not be persisted. The returned result is valid.
type SaveWarning struct {
	Err error
}

func (w *SaveWarning) Error() string {
	return "progress not saved: " + w.Err.Error()
}

func (w *SaveWarning) Unwrap() error {
	return w.Err
}

// IsSaveWarning reports whether err only signals a failed save.
func IsSaveWarning(err error) bool {
	var w *SaveWarning
	return errors.As(err, &w)
}

// Options configures Open.
type Options struct {
	Config config.Config

	// Catalog overrides Config.ContentPath.
	Catalog *content.Catalog

	// Backend overrides Config.Backend. The caller keeps ownership.
	Backend persist.Backend

	Logger *slog.Logger
	Now    func() time.Time
}

// App owns an engine and its persistence.
type App struct {
	engine  *engine.Engine
	repo    *persist.Repository
	catalog *content.Catalog
	logger  *slog.Logger
	closer  io.Closer
}

// Open builds the engine and hydrates it from the backend. A state that
// cannot be loaded is logged and replaced by a fresh one; only a backend
// that cannot be opened at all is an error.
func Open(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		catalog, err = loadCatalog(opts.Config.ContentPath)
		if err != nil {
			return nil, err
		}
	}

	backend, closer := opts.Backend, io.Closer(nil)
	if backend == nil {
		var err error
		backend, closer, err = openBackend(ctx, opts.Config)
		if err != nil {
			return nil, err
		}
	}

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.Now != nil {
		engOpts = append(engOpts, engine.WithClock(opts.Now))
	}

	a := &App{
		engine:  engine.New(catalog.Configs(), opts.Config.Engine(), engOpts...),
		repo:    persist.NewRepository(backend, logger),
		catalog: catalog,
		logger:  logger,
		closer:  closer,
	}

	dirty := a.hydrate(ctx)
	if missed := a.engine.DetectMissedUnlocks(); len(missed) > 0 {
		dirty = true
	}
	// Progress-based unlocks are not tied to a completed quiz.
	if unlocked := a.engine.CheckForUnlocks(); len(unlocked) > 0 {
		dirty = true
	}
	if dirty {
		if err := a.save(ctx); err != nil {
			logger.Warn("initial save failed", "error", err)
		}
	}
	return a, nil
}

// hydrate restores the persisted state and reports whether it must be
// written back.
func (a *App) hydrate(ctx context.Context) bool {
	state, found, err := a.repo.Load(ctx)
	if err != nil {
		a.logger.Warn("persisted state could not be fully loaded, using defaults for the rest", "error", err)
	}
	if !found {
		a.logger.Debug("no persisted state, starting fresh")
		return true
	}
	a.engine.Restore(state)
	return err != nil
}

func loadCatalog(path string) (*content.Catalog, error) {
	if path == "" {
		return content.Default(), nil
	}
	c, err := content.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return c, nil
}

func openBackend(ctx context.Context, cfg config.Config) (persist.Backend, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil, nil
	case config.BackendRedis:
		s, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendSQLite, "":
		path := cfg.DBPath
		if path == "" {
			var err error
			if path, err = store.DefaultDBPath(); err != nil {
				return nil, nil, err
			}
		} else if err := store.EnsureDir(path); err != nil {
			return nil, nil, err
		}
		s, err := store.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
}

// Close releases the backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Engine exposes the engine for read-only queries.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Catalog returns the loaded content.
func (a *App) Catalog() *content.Catalog {
	return a.catalog
}

func (a *App) save(ctx context.Context) error {
	return a.repo.Save(ctx, a.engine.Snapshot())
}

// persist saves the engine state and turns a failure into a SaveWarning.
func (a *App) persist(ctx context.Context) error {
	if err := a.save(ctx); err != nil {
		a.logger.Warn("save failed, continuing in memory", "error", err)
		return &SaveWarning{Err: err}
	}
	return nil
}

// StartQuiz makes sure the quiz has a state and returns it.
func (a *App) StartQuiz(ctx context.Context, quizID string) (*quiz.State, error) {
	if err := a.checkUnlocked(quizID); err != nil {
		return nil, err
	}
	_, existed := a.engine.QuizState(quizID)
	st, err := a.engine.InitializeQuizState(quizID)
	if err != nil {
		return nil, err
	}
	if existed {
		return st, nil
	}
	return st, a.persist(ctx)
}

// SubmitAnswer checks an answer and saves the outcome.
func (a *App) SubmitAnswer(ctx context.Context, quizID string, questionID int, text string) (engine.SubmitResult, error) {
	if err := a.checkUnlocked(quizID); err != nil {
		return engine.SubmitResult{}, err
	}
	res, err := a.engine.SubmitAnswer(quizID, questionID, text)
	if err != nil {
		return res, err
	}
	return res, a.persist(ctx)
}

// ApplyHint reveals a hint and saves the outcome. Nothing is saved when the
// hint was not applied.
func (a *App) ApplyHint(ctx context.Context, quizID string, questionID int, hintID string) (engine.HintResult, error) {
	if err := a.checkUnlocked(quizID); err != nil {
		return engine.HintResult{}, err
	}
	res := a.engine.ApplyHint(quizID, questionID, hintID)
	if !res.Success {
		return res, nil
	}
	return res, a.persist(ctx)
}

// AcknowledgeUnlock marks an unlock as shown and saves it.
func (a *App) AcknowledgeUnlock(ctx context.Context, quizID string) (bool, error) {
	if !a.engine.AcknowledgeUnlock(quizID) {
		return false, nil
	}
	return true, a.persist(ctx)
}

// ResetQuiz resets one quiz and saves.
func (a *App) ResetQuiz(ctx context.Context, quizID string) (*quiz.State, error) {
	st, err := a.engine.ResetQuizState(quizID)
	if err != nil {
		return nil, err
	}
	return st, a.persist(ctx)
}

// ResetAll wipes all progress, in memory and in the backend.
func (a *App) ResetAll(ctx context.Context) error {
	a.engine.ResetAllQuizStates()
	if err := a.repo.Clear(ctx); err != nil {
		a.logger.Warn("clearing persisted state failed", "error", err)
	}
	return a.persist(ctx)
}

// PendingUnlocks returns the unlocks the player has not seen yet.
func (a *App) PendingUnlocks() []unlock.PendingUnlock {
	return a.engine.PendingUnlocks()
}

func (a *App) checkUnlocked(quizID string) error {
	ok, err := a.engine.IsQuizUnlocked(quizID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", quizID, ErrQuizLocked)
	}
	return nil
}
