// Package persist stores the runtime state as three versioned JSON blobs in a
// key-value backend.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizcore/internal/engine"
	"github.com/abhisek/quizcore/internal/points"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/unlock"
)

// Blob keys.
const (
	KeyQuizStates     = "quizStates"
	KeyPendingUnlocks = "pendingUnlocks"
	KeyUserPoints     = "userPoints"
)

// CurrentVersion is written into every envelope.
const CurrentVersion = 1

// Keys lists every blob key the repository writes.
var Keys = []string{KeyQuizStates, KeyPendingUnlocks, KeyUserPoints}

// Backend is a key-value blob store. Load returns nil, nil for a missing key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Envelope wraps every persisted blob.
type Envelope struct {
	Version     int             `json:"version"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Data        json.RawMessage `json:"data"`
}

// Repository reads and writes engine state through a Backend.
type Repository struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

func NewRepository(backend Backend, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{backend: backend, logger: logger, now: time.Now}
}

// Load reads all three blobs. found reports whether any blob existed. Blobs
// that fail to load or decode are left at their zero value and their errors
// are joined into err; the rest of the state is still returned.
func (r *Repository) Load(ctx context.Context) (state engine.State, found bool, err error) {
	var errs []error

	state.Quizzes = make(map[string]*quiz.State)
	ok, e := r.load(ctx, KeyQuizStates, &state.Quizzes)
	found = found || ok
	if e != nil {
		state.Quizzes = make(map[string]*quiz.State)
		errs = append(errs, e)
	}

	state.Pending = unlock.Pending{}
	ok, e = r.load(ctx, KeyPendingUnlocks, &state.Pending)
	found = found || ok
	if e != nil {
		state.Pending = unlock.Pending{}
		errs = append(errs, e)
	}

	ok, e = r.load(ctx, KeyUserPoints, &state.Points)
	found = found || ok
	if e != nil {
		state.Points = points.State{}
		errs = append(errs, e)
	}

	return state, found, errors.Join(errs...)
}

func (r *Repository) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.backend.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return true, fmt.Errorf("decode %s envelope: %w", key, err)
	}
	if env.Version != CurrentVersion {
		r.logger.Warn("persisted blob has unexpected version",
			"key", key, "version", env.Version, "want", CurrentVersion)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return true, nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes the three blobs concurrently.
func (r *Repository) Save(ctx context.Context, state engine.State) error {
	now := r.now().UTC()
	blobs := map[string]any{
		KeyQuizStates:     state.Quizzes,
		KeyPendingUnlocks: state.Pending,
		KeyUserPoints:     state.Points,
	}

	g, ctx := errgroup.WithContext(ctx)
	for key, v := range blobs {
		g.Go(func() error {
			data, err := encode(v, now)
			if err != nil {
				return fmt.Errorf("encode %s: %w", key, err)
			}
			if err := r.backend.Save(ctx, key, data); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.logger.Debug("state saved", "quizzes", len(state.Quizzes), "pending", len(state.Pending))
	return nil
}

// Clear deletes every blob.
func (r *Repository) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range Keys {
		if err := r.backend.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func encode(v any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Version:     CurrentVersion,
		LastUpdated: now,
		Data:        data,
	})
}
