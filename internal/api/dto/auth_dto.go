package dto

import (
	"time"

	"github.com/spec-kit/demand-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateAnalystRequest payload.
type CreateAnalystRequest struct {
	Name     string             `json:"nome"`
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Role     domain.AnalystRole `json:"role"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SetActiveRequest payload.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// AnalystResponse hides the password hash.
type AnalystResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"nome"`
	Email     string             `json:"email"`
	Role      domain.AnalystRole `json:"role"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"createdAt"`
}

// NewAnalystResponse maps a domain analyst.
func NewAnalystResponse(a *domain.Analyst) AnalystResponse {
	return AnalystResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}
