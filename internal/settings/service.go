package settings

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
)

const defaultWriteWorkers = 4

// Service reads and bulk-updates the key/value settings store.
type Service interface {
	List(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, updatedBy string, entries map[string]string) error
}

type service struct {
	repo    Repository
	workers int
	now     func() time.Time
}

// NewService wires the settings service. writeWorkers bounds the bulk-update
// fan-out; values below one fall back to the default.
func NewService(repo Repository, writeWorkers int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings repository required")
	}
	if writeWorkers < 1 {
		writeWorkers = defaultWriteWorkers
	}
	return &service{
		repo:    repo,
		workers: writeWorkers,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context) (map[string]string, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list settings")
	}
	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

// Update applies every entry concurrently and waits for all writes before
// returning. A failed write surfaces as the overall error; the remaining
// entries are still attempted.
func (s *service) Update(ctx context.Context, updatedBy string, entries map[string]string) error {
	if len(entries) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}
	for key := range entries {
		if strings.TrimSpace(key) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "setting key cannot be empty")
		}
	}

	now := s.now()
	var g errgroup.Group
	g.SetLimit(s.workers)
	for key, value := range entries {
		setting := models.Setting{
			Key:       key,
			Value:     value,
			UpdatedBy: updatedBy,
			UpdatedAt: now,
		}
		g.Go(func() error {
			return s.repo.Upsert(ctx, setting)
		})
	}
	if err := g.Wait(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply settings")
	}
	return nil
}
