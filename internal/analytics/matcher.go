package analytics

import (
	"regexp"
	"strings"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// qualifierRe matches a trailing marketing qualifier on a medicine name,
// e.g. "Panadol New" vs "Panadol".
var qualifierRe = regexp.MustCompile(`(?i)\s+(new|old|latest|updated)$`)

// matcher resolves the purchase price for a sale whose live medicine row may
// have been renamed, duplicated across clinics, or deleted since the sale.
type matcher struct {
	byID map[uuid.UUID]*models.Medicine
	all  []models.Medicine
}

func newMatcher(index []models.Medicine) *matcher {
	byID := make(map[uuid.UUID]*models.Medicine, len(index))
	for i := range index {
		byID[index[i].ID] = &index[i]
	}
	return &matcher{byID: byID, all: index}
}

// purchasePrice returns the cost basis for the sale, or false when no price
// resolves through any path.
func (m *matcher) purchasePrice(sale models.Sale) (decimal.Decimal, bool) {
	if medicine, ok := m.byID[sale.MedicineID]; ok && medicine.PurchasePrice.Valid {
		return medicine.PurchasePrice.Decimal, true
	}

	candidates := m.candidatesByName(sale.MedicineName, false)
	if len(candidates) == 0 {
		candidates = m.candidatesByName(sale.MedicineName, true)
	}
	if len(candidates) == 0 {
		return decimal.Decimal{}, false
	}
	return pickPrice(candidates, sale.Clinic)
}

func (m *matcher) candidatesByName(name string, stripQualifier bool) []*models.Medicine {
	target := normalizeName(name)
	if stripQualifier {
		target = stripTrailingQualifier(target)
	}
	if target == "" {
		return nil
	}

	var candidates []*models.Medicine
	for i := range m.all {
		candidate := normalizeName(m.all[i].Name)
		if stripQualifier {
			candidate = stripTrailingQualifier(candidate)
		}
		if candidate == target {
			candidates = append(candidates, &m.all[i])
		}
	}
	return candidates
}

// pickPrice walks the preference tiers: exact clinic, then clinic prefix,
// then any candidate, taking the first with a non-null purchase price.
func pickPrice(candidates []*models.Medicine, clinic string) (decimal.Decimal, bool) {
	tiers := []func(*models.Medicine) bool{
		func(c *models.Medicine) bool { return c.Clinic == clinic },
		func(c *models.Medicine) bool {
			return strings.HasPrefix(strings.ToLower(clinic), strings.ToLower(c.Clinic))
		},
		func(*models.Medicine) bool { return true },
	}
	for _, matches := range tiers {
		for _, candidate := range candidates {
			if matches(candidate) && candidate.PurchasePrice.Valid {
				return candidate.PurchasePrice.Decimal, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func stripTrailingQualifier(name string) string {
	return strings.TrimSpace(qualifierRe.ReplaceAllString(name, ""))
}
