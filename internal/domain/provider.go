package domain

import "time"

// Provider is a catalog entry for circular-letter recipients. Name matches
// DestinatarioData.Nome.
type Provider struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Address   string    `json:"endereco"`
	IsActive  bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
}
