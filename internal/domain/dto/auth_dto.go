package dto

import (
	"time"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ExchangeCodeRequest struct {
	AuthCode string `json:"auth_code" binding:"required"`
}

// UpdateProfileRequest supports partial updates; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	Picture   *string `json:"picture,omitempty" binding:"omitempty,url,max=500"`
}

func (req *UpdateProfileRequest) ApplyTo(user *domain.User) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Picture != nil {
		user.Picture = *req.Picture
	}
}

type AuthResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func NewAuthResponse(result *domain.AuthResult) *AuthResponse {
	return &AuthResponse{User: result.User, Tokens: result.Tokens}
}

// SessionResponse is the public view of a session; the refresh token is never exposed.
type SessionResponse struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	Current    bool      `json:"current"`
}

func NewSessionResponses(sessions []*domain.Session, currentID string) []*SessionResponse {
	out := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, &SessionResponse{
			ID:         s.ID,
			CreatedAt:  s.CreatedAt,
			LastUsedAt: s.LastUsedAt,
			ExpiresAt:  s.ExpiresAt,
			UserAgent:  s.UserAgent,
			IPAddress:  s.IPAddress,
			Current:    s.ID == currentID,
		})
	}
	return out
}
