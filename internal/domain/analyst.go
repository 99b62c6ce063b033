package domain

import "time"

// AnalystRole enumerates operator roles.
type AnalystRole string

const (
	AnalystRoleAnalista     AnalystRole = "ANALISTA"
	AnalystRoleDistribuidor AnalystRole = "DISTRIBUIDOR"
	AnalystRoleAdmin        AnalystRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r AnalystRole) Valid() bool {
	switch r {
	case AnalystRoleAnalista, AnalystRoleDistribuidor, AnalystRoleAdmin:
		return true
	default:
		return false
	}
}

// Analyst is an operator who owns or distributes demands. Name is the value
// stored in Demand.Analista and Demand.Distribuidor.
type Analyst struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AnalystRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
