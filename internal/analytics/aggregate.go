package analytics

import (
	"encoding/json"
	"sort"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

const topMedicinesLimit = 10

// Profit is either a known amount or unavailable. Unavailable profit is
// reported as JSON null, never coerced to zero.
type Profit struct {
	Known  bool
	Amount decimal.Decimal
}

// KnownProfit wraps an amount as a resolved profit value.
func KnownProfit(amount decimal.Decimal) Profit {
	return Profit{Known: true, Amount: amount}
}

func (p Profit) MarshalJSON() ([]byte, error) {
	if !p.Known {
		return []byte("null"), nil
	}
	return json.Marshal(p.Amount)
}

func (p *Profit) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Profit{}
		return nil
	}
	var amount decimal.Decimal
	if err := json.Unmarshal(data, &amount); err != nil {
		return err
	}
	*p = KnownProfit(amount)
	return nil
}

// MedicineStats aggregates one name group across clinics.
type MedicineStats struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   Profit          `json:"profit"`
}

// Result is the aggregate over a window of sales.
type Result struct {
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TopMedicines []MedicineStats `json:"top_medicines"`
}

type group struct {
	stats      MedicineStats
	unresolved bool
}

// Aggregate computes totals and the top medicine groups for the given sales.
// Groups are keyed by the sale's snapshotted medicine name, so records with
// the same name in different clinics collapse into one bucket. A group whose
// sales cannot all be attributed a purchase price reports Unknown profit and
// is excluded from TotalProfit.
func Aggregate(sales []models.Sale, index []models.Medicine) Result {
	m := newMatcher(index)

	groups := map[string]*group{}
	var order []string

	result := Result{
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
		TopMedicines: []MedicineStats{},
	}

	for _, sale := range sales {
		key := normalizeName(sale.MedicineName)
		g, ok := groups[key]
		if !ok {
			g = &group{stats: MedicineStats{
				Name:    sale.MedicineName,
				Revenue: decimal.Zero,
				Profit:  KnownProfit(decimal.Zero),
			}}
			groups[key] = g
			order = append(order, key)
		}

		result.TotalSales += sale.Quantity
		result.TotalRevenue = result.TotalRevenue.Add(sale.Total)
		g.stats.Quantity += sale.Quantity
		g.stats.Revenue = g.stats.Revenue.Add(sale.Total)

		price, resolved := m.purchasePrice(sale)
		if !resolved {
			g.unresolved = true
			continue
		}
		margin := sale.Rate.Sub(price).Mul(decimal.NewFromInt(int64(sale.Quantity)))
		g.stats.Profit.Amount = g.stats.Profit.Amount.Add(margin)
	}

	ranked := make([]MedicineStats, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.unresolved {
			g.stats.Profit = Profit{}
		} else {
			result.TotalProfit = result.TotalProfit.Add(g.stats.Profit.Amount)
		}
		ranked = append(ranked, g.stats)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > topMedicinesLimit {
		ranked = ranked[:topMedicinesLimit]
	}
	result.TopMedicines = ranked
	return result
}
