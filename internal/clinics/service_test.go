package clinics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinistock/backend/internal/transfers"
	"github.com/clinistock/backend/pkg/db/models"
	"github.com/clinistock/backend/pkg/enums"
)

type stubMedicineSource struct {
	clinics []string
}

func (s stubMedicineSource) Clinics(_ context.Context) ([]string, error) {
	return append([]string{}, s.clinics...), nil
}

type stubWorkerSource struct {
	workers []models.User
}

func (s stubWorkerSource) ListByRole(_ context.Context, _ enums.Role) ([]models.User, error) {
	return s.workers, nil
}

func worker(name, clinic string, extras ...string) models.User {
	return models.User{
		ID:           uuid.New(),
		Name:         name,
		Role:         enums.RoleWorker,
		Clinic:       clinic,
		ExtraClinics: pq.StringArray(extras),
	}
}

func TestListMergesStockAndWorkerClinics(t *testing.T) {
	svc, err := NewService(
		stubMedicineSource{clinics: []string{"Clinic1", "Clinic3"}},
		stubWorkerSource{workers: []models.User{
			worker("Sana", "Clinic1"),
			worker("Ali", "Clinic2"),
		}},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	directory, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(directory) != 3 {
		t.Fatalf("expected 3 clinics, got %d", len(directory))
	}
	for i, want := range []string{"Clinic1", "Clinic2", "Clinic3"} {
		if directory[i].Name != want {
			t.Fatalf("expected sorted directory, got %q at %d", directory[i].Name, i)
		}
	}
	if directory[2].Label != "Clinic3" {
		t.Fatalf("clinic without workers keeps a bare label, got %q", directory[2].Label)
	}
}

func TestListAnnotatesLabelWithWorkers(t *testing.T) {
	svc, _ := NewService(
		stubMedicineSource{clinics: []string{"Clinic1"}},
		stubWorkerSource{workers: []models.User{
			worker("Sana", "Clinic1"),
			worker("Ali", "Clinic1"),
		}},
	)

	directory, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := directory[0].Label; got != "Clinic1 (Sana, Ali)" {
		t.Fatalf("expected annotated label, got %q", got)
	}

	// The label a client echoes back into a transfer request must normalize
	// to the bare clinic name.
	if normalized := transfers.NormalizeClinic(directory[0].Label); normalized != "Clinic1" {
		t.Fatalf("label must round trip through transfer normalization, got %q", normalized)
	}
}

func TestListIncludesExtraClinicGrants(t *testing.T) {
	svc, _ := NewService(
		stubMedicineSource{},
		stubWorkerSource{workers: []models.User{
			worker("Sana", "Clinic1", "Clinic2"),
		}},
	)

	directory, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(directory) != 2 {
		t.Fatalf("expected both granted clinics, got %d", len(directory))
	}
	if directory[1].Label != "Clinic2 (Sana)" {
		t.Fatalf("expected grant annotated on extra clinic, got %q", directory[1].Label)
	}
}

func TestNewServiceRequiresSources(t *testing.T) {
	if _, err := NewService(nil, stubWorkerSource{}); err == nil {
		t.Fatal("expected error for nil medicine source")
	}
	if _, err := NewService(stubMedicineSource{}, nil); err == nil {
		t.Fatal("expected error for nil worker source")
	}
}
