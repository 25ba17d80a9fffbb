package clinics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/clinistock/backend/pkg/enums"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
)

type medicineSource interface {
	Clinics(ctx context.Context) ([]string, error)
}

type workerSource interface {
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
}

// Clinic is one directory entry. Label is the annotated form fed back into
// transfer requests, e.g. "Clinic1 (Sana, Ali)".
type Clinic struct {
	Name    string   `json:"name"`
	Workers []string `json:"workers"`
	Label   string   `json:"label"`
}

// Service derives the clinic directory from medicine and account records.
// There is no clinics table; a clinic exists once stock or a worker names it.
type Service interface {
	List(ctx context.Context) ([]Clinic, error)
}

type service struct {
	medicines medicineSource
	workers   workerSource
}

// NewService wires the directory over the medicine and user stores.
func NewService(medicines medicineSource, workers workerSource) (Service, error) {
	if medicines == nil {
		return nil, fmt.Errorf("medicine source required")
	}
	if workers == nil {
		return nil, fmt.Errorf("worker source required")
	}
	return &service{medicines: medicines, workers: workers}, nil
}

func (s *service) List(ctx context.Context) ([]Clinic, error) {
	names, err := s.medicines.Clinics(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stocked clinics")
	}

	workers, err := s.workers.ListByRole(ctx, enums.RoleWorker)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workers")
	}

	workersByClinic := map[string][]string{}
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for _, worker := range workers {
		for _, clinic := range workerClinics(worker) {
			if clinic == "" {
				continue
			}
			if !seen[clinic] {
				seen[clinic] = true
				names = append(names, clinic)
			}
			workersByClinic[clinic] = append(workersByClinic[clinic], worker.Name)
		}
	}
	sort.Strings(names)

	directory := make([]Clinic, 0, len(names))
	for _, name := range names {
		directory = append(directory, Clinic{
			Name:    name,
			Workers: append([]string{}, workersByClinic[name]...),
			Label:   annotate(name, workersByClinic[name]),
		})
	}
	return directory, nil
}

func workerClinics(worker models.User) []string {
	clinics := []string{strings.TrimSpace(worker.Clinic)}
	for _, extra := range worker.ExtraClinics {
		clinics = append(clinics, strings.TrimSpace(extra))
	}
	return clinics
}

func annotate(name string, workers []string) string {
	if len(workers) == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(workers, ", "))
}
