package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	UpdateLastUsed(ctx context.Context, sessionID string) error

	StoreTemporaryAuth(ctx context.Context, authCode, authData string, expiration time.Duration) error
	GetTemporaryAuth(ctx context.Context, authCode string) (string, error)
}

type CvRepository interface {
	Create(ctx context.Context, cv *Cv) error
	GetByID(ctx context.Context, id uuid.UUID) (*Cv, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Cv, error)
	Update(ctx context.Context, cv *Cv) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddComponent(ctx context.Context, component *CvComponent) error
	AddComponents(ctx context.Context, components []*CvComponent) error
	ListComponents(ctx context.Context, cvID uuid.UUID) ([]*CvComponent, error)
	UpdateComponent(ctx context.Context, component *CvComponent) error
	DeleteComponent(ctx context.Context, id uuid.UUID) error
	ReorderComponents(ctx context.Context, cvID uuid.UUID, orderedIDs []uuid.UUID) error
}

type JobRepository interface {
	Create(ctx context.Context, job *JobPosting) error
	GetByID(ctx context.Context, id uuid.UUID) (*JobPosting, error)
	// skill filters by a normalized required or preferred skill; empty means all.
	ListByUserID(ctx context.Context, userID uuid.UUID, skill string, offset, limit int) ([]*JobPosting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnalysisRepository interface {
	Create(ctx context.Context, analysis *ApplicationAnalysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*ApplicationAnalysis, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, cvID *uuid.UUID) ([]*ApplicationAnalysis, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OAuthService interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error)
}

type AuthenticationService interface {
	// Email and password
	Register(ctx context.Context, email, password, firstName, lastName, userAgent, ipAddress string) (*AuthResult, error)
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*AuthResult, error)

	// OAuth flow
	GoogleEnabled() bool
	InitiateGoogleAuth(state string) string
	CompleteGoogleAuth(ctx context.Context, code, userAgent, ipAddress string) (*AuthResult, error)

	// Token management
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, userAgent, ipAddress string) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, tokenString string) (*AuthInfo, error)
	RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error)

	// Session management
	RevokeSession(ctx context.Context, sessionID string) error
	GetUserSessions(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error

	// Temporary auth codes for frontend callback
	StoreTemporaryAuth(ctx context.Context, authCode string, authResult *AuthResult, expiration time.Duration) error
	ExchangeAuthCode(ctx context.Context, authCode string) (*AuthResult, error)
}

// Analyzer produces AI insights for an already scored CV/job pair.
type Analyzer interface {
	Analyze(ctx context.Context, cv *CvDocument, job *JobPosting, result *MatchResult) (*Insights, error)
}
