// Package demandstatus derives the lifecycle state of a demand from its
// dates and the documents attached to it.
package demandstatus

import "github.com/spec-kit/demand-service/internal/domain"

// Calculate returns the authoritative status of demand. Only documents whose
// DemandaID matches the demand are considered.
func Calculate(demand domain.Demand, allDocuments []domain.Document) domain.DemandStatus {
	if demand.Reopened() {
		if demand.NovaDataFinal != "" {
			return domain.DemandStatusFinalizada
		}
	} else if demand.DataInicial != "" && demand.DataFinal != "" {
		return domain.DemandStatusFinalizada
	}

	if demand.DataInicial == "" {
		if demand.Status != "" {
			return demand.Status
		}
		return domain.DemandStatusFilaDeEspera
	}

	docs := BelongsTo(demand, allDocuments)
	if len(docs) == 0 {
		return domain.DemandStatusFilaDeEspera
	}
	for _, doc := range docs {
		if doc.Respondido != nil && !*doc.Respondido {
			return domain.DemandStatusAguardando
		}
	}
	return domain.DemandStatusEmAndamento
}

// BelongsTo filters documents attached to demand.
func BelongsTo(demand domain.Demand, allDocuments []domain.Document) []domain.Document {
	out := make([]domain.Document, 0)
	for _, doc := range allDocuments {
		if doc.DemandaID == demand.ID {
			out = append(out, doc)
		}
	}
	return out
}

// IndexByDemand groups documents by DemandaID. Documents without a demand
// are dropped.
func IndexByDemand(allDocuments []domain.Document) map[string][]domain.Document {
	out := make(map[string][]domain.Document)
	for _, doc := range allDocuments {
		if doc.DemandaID == "" {
			continue
		}
		out[doc.DemandaID] = append(out[doc.DemandaID], doc)
	}
	return out
}
