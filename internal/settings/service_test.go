package settings

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
)

type stubSettingsRepo struct {
	mu        sync.Mutex
	applied   map[string]models.Setting
	upsertErr error
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{applied: map[string]models.Setting{}}
}

func (s *stubSettingsRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubSettingsRepo) List(_ context.Context) ([]models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Setting
	for _, setting := range s.applied {
		out = append(out, setting)
	}
	return out, nil
}

func (s *stubSettingsRepo) Get(_ context.Context, key string) (*models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if setting, ok := s.applied[key]; ok {
		return &setting, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSettingsRepo) Upsert(_ context.Context, setting models.Setting) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied[setting.Key] = setting
	return nil
}

func TestUpdateAppliesEveryEntryBeforeReturning(t *testing.T) {
	repo := newStubSettingsRepo()
	svc, err := NewService(repo, 3)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	entries := map[string]string{}
	for i := 0; i < 20; i++ {
		entries[fmt.Sprintf("key_%02d", i)] = fmt.Sprintf("value_%02d", i)
	}

	if err := svc.Update(context.Background(), "admin", entries); err != nil {
		t.Fatalf("update: %v", err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.applied) != len(entries) {
		t.Fatalf("expected %d writes before return, got %d", len(entries), len(repo.applied))
	}
	for key, value := range entries {
		got, ok := repo.applied[key]
		if !ok || got.Value != value {
			t.Fatalf("missing or stale write for %s", key)
		}
		if got.UpdatedBy != "admin" {
			t.Fatalf("expected updated_by stamped, got %q", got.UpdatedBy)
		}
	}
}

func TestUpdateSurfacesWriteFailure(t *testing.T) {
	repo := newStubSettingsRepo()
	repo.upsertErr = fmt.Errorf("disk full")
	svc, _ := NewService(repo, 2)

	err := svc.Update(context.Background(), "admin", map[string]string{"a": "1", "b": "2"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestUpdateValidatesEntries(t *testing.T) {
	svc, _ := NewService(newStubSettingsRepo(), 0)

	err := svc.Update(context.Background(), "admin", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty payload, got %v", err)
	}

	err = svc.Update(context.Background(), "admin", map[string]string{" ": "x"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank key, got %v", err)
	}
}

func TestListReturnsValueMap(t *testing.T) {
	repo := newStubSettingsRepo()
	repo.applied["clinic_name"] = models.Setting{Key: "clinic_name", Value: "CliniStock"}
	svc, _ := NewService(repo, 1)

	values, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if values["clinic_name"] != "CliniStock" {
		t.Fatalf("expected value map, got %v", values)
	}
}
