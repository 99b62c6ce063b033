package dto

// CreateDemandRequest payload. Dates use DD/MM/YYYY.
type CreateDemandRequest struct {
	TipoDemanda  string `json:"tipoDemanda"`
	Orgao        string `json:"orgao"`
	Analista     string `json:"analista"`
	Distribuidor string `json:"distribuidor"`
	DataInicial  string `json:"dataInicial"`
}

// LifecycleRequest payload for finalize and reopen. An empty date means
// today.
type LifecycleRequest struct {
	Data string `json:"data"`
}

// AssignRequest payload. An empty analista picks the least loaded analyst.
type AssignRequest struct {
	Analista string `json:"analista"`
}

// CreateProviderRequest payload.
type CreateProviderRequest struct {
	Name    string `json:"nome"`
	Address string `json:"endereco"`
}
