package domain

import "time"

// DemandStatus enumerates lifecycle states for demands.
type DemandStatus string

const (
	DemandStatusEmAndamento  DemandStatus = "Em Andamento"
	DemandStatusFinalizada   DemandStatus = "Finalizada"
	DemandStatusFilaDeEspera DemandStatus = "Fila de Espera"
	DemandStatusAguardando   DemandStatus = "Aguardando"
)

// KnownDemandStatuses lists every status in dashboard order.
var KnownDemandStatuses = []DemandStatus{
	DemandStatusFilaDeEspera,
	DemandStatusAguardando,
	DemandStatusEmAndamento,
	DemandStatusFinalizada,
}

// Valid reports whether s is one of the known statuses.
func (s DemandStatus) Valid() bool {
	for _, known := range KnownDemandStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Demand is the aggregate for a tracked case. Dates use the display format
// DD/MM/YYYY; an empty string means the date is not set.
type Demand struct {
	ID             string       `json:"id"`
	TipoDemanda    string       `json:"tipoDemanda"`
	Orgao          string       `json:"orgao"`
	Analista       string       `json:"analista"`
	Distribuidor   string       `json:"distribuidor"`
	DataInicial    string       `json:"dataInicial"`
	DataFinal      string       `json:"dataFinal,omitempty"`
	DataReabertura string       `json:"dataReabertura,omitempty"`
	NovaDataFinal  string       `json:"novaDataFinal,omitempty"`
	Status         DemandStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Reopened reports whether the demand entered the reopening sub-cycle.
func (d Demand) Reopened() bool {
	return d.DataReabertura != ""
}

// Finalized reports whether the demand carries the final date of its
// current cycle.
func (d Demand) Finalized() bool {
	if d.Reopened() {
		return d.NovaDataFinal != ""
	}
	return d.DataInicial != "" && d.DataFinal != ""
}

// LastFinalDate returns the final date of the latest closed cycle.
func (d Demand) LastFinalDate() string {
	if d.NovaDataFinal != "" {
		return d.NovaDataFinal
	}
	return d.DataFinal
}
