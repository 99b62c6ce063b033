// Package dashboard folds the status calculator and the completeness
// classifier over collections to produce dashboard counts.
package dashboard

import (
	"sort"
	"strings"

	"github.com/spec-kit/demand-service/internal/completeness"
	"github.com/spec-kit/demand-service/internal/demandstatus"
	"github.com/spec-kit/demand-service/internal/domain"
)

// Filter narrows the fold. An empty Analista means every analyst.
type Filter struct {
	Analista string `json:"analista,omitempty"`
}

// Key identifies the filter in caches.
func (f Filter) Key() string {
	if f.Analista == "" {
		return "all"
	}
	return "analista:" + strings.ToLower(strings.TrimSpace(f.Analista))
}

func (f Filter) matches(d domain.Demand) bool {
	if f.Analista == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(d.Analista), strings.TrimSpace(f.Analista))
}

// AnalystCounts is the per-analyst status breakdown.
type AnalystCounts struct {
	Analista string                      `json:"analista"`
	Total    int                         `json:"total"`
	ByStatus map[domain.DemandStatus]int `json:"byStatus"`
}

// Summary is the dashboard payload.
type Summary struct {
	Filter                   Filter                      `json:"filter"`
	TotalDemands             int                         `json:"totalDemandas"`
	ByStatus                 map[domain.DemandStatus]int `json:"byStatus"`
	TotalDocuments           int                         `json:"totalDocumentos"`
	IncompleteDocuments      int                         `json:"documentosIncompletos"`
	DemandsWithIncomplete    int                         `json:"demandasComPendencias"`
	IncompleteByDocumentType map[domain.DocumentType]int `json:"incompletosPorTipo"`
	ByAnalyst                []AnalystCounts             `json:"porAnalista"`
}

// Summarize computes dashboard counts. Documents not attached to a matching
// demand are ignored.
func Summarize(demands []domain.Demand, documents []domain.Document, filter Filter) Summary {
	summary := Summary{
		Filter:                   filter,
		ByStatus:                 make(map[domain.DemandStatus]int, len(domain.KnownDemandStatuses)),
		IncompleteByDocumentType: make(map[domain.DocumentType]int),
	}
	for _, status := range domain.KnownDemandStatuses {
		summary.ByStatus[status] = 0
	}

	byDemand := demandstatus.IndexByDemand(documents)
	perAnalyst := make(map[string]*AnalystCounts)

	for _, demand := range demands {
		if !filter.matches(demand) {
			continue
		}
		docs := byDemand[demand.ID]
		status := demandstatus.Calculate(demand, docs)

		summary.TotalDemands++
		summary.ByStatus[status]++

		counts, ok := perAnalyst[demand.Analista]
		if !ok {
			counts = &AnalystCounts{Analista: demand.Analista, ByStatus: make(map[domain.DemandStatus]int)}
			perAnalyst[demand.Analista] = counts
		}
		counts.Total++
		counts.ByStatus[status]++

		pending := false
		for _, doc := range docs {
			summary.TotalDocuments++
			if completeness.IsIncomplete(doc) {
				summary.IncompleteDocuments++
				summary.IncompleteByDocumentType[doc.TipoDocumento]++
				pending = true
			}
		}
		if pending {
			summary.DemandsWithIncomplete++
		}
	}

	summary.ByAnalyst = make([]AnalystCounts, 0, len(perAnalyst))
	for _, counts := range perAnalyst {
		summary.ByAnalyst = append(summary.ByAnalyst, *counts)
	}
	sort.Slice(summary.ByAnalyst, func(i, j int) bool {
		return summary.ByAnalyst[i].Analista < summary.ByAnalyst[j].Analista
	})
	return summary
}

// IncompleteDocuments returns the ids of incomplete documents in input order.
func IncompleteDocuments(documents []domain.Document) []domain.DocumentID {
	ids := make([]domain.DocumentID, 0)
	for _, doc := range documents {
		if completeness.IsIncomplete(doc) {
			ids = append(ids, doc.ID)
		}
	}
	return ids
}
