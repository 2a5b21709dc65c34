package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jask/fundadmin/internal/repository"
)

// ProjectTotals sums donation amounts per project title in one pass. The
// result lists titles in the order they first appear.
func ProjectTotals(donations []repository.Donation) []repository.ProjectTotal {
	index := make(map[string]int, len(donations))
	out := make([]repository.ProjectTotal, 0)
	for _, d := range donations {
		i, seen := index[d.ProjectTitle]
		if !seen {
			i = len(out)
			index[d.ProjectTitle] = i
			out = append(out, repository.ProjectTotal{ProjectTitle: d.ProjectTitle, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(d.Amount.Decimal)
	}
	return out
}

// GrandTotal sums all project totals.
func GrandTotal(totals []repository.ProjectTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum
}

// TotalsMemo caches ProjectTotals keyed on the loader version that produced
// the donation list.
type TotalsMemo struct {
	mu       sync.Mutex
	valid    bool
	version  uint64
	length   int
	totals   []repository.ProjectTotal
	computes int
}

func (m *TotalsMemo) Totals(version uint64, donations []repository.Donation) []repository.ProjectTotal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.version == version && m.length == len(donations) {
		return m.totals
	}
	m.totals = ProjectTotals(donations)
	m.valid, m.version, m.length = true, version, len(donations)
	m.computes++
	return m.totals
}

// Computes reports how many times the totals were recomputed.
func (m *TotalsMemo) Computes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.computes
}
