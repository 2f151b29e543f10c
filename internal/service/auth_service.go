package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/config"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type authenticationService struct {
	config      *config.Config
	oauthSvc    domain.OAuthService
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	jwtSecret   []byte
	now         func() time.Time
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID string    `json:"session_id"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

const (
	AccessTokenDuration  = 1 * time.Hour
	RefreshTokenDuration = 30 * 24 * time.Hour
	TempAuthCodeDuration = 5 * time.Minute

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// bcrypt ignores input past 72 bytes and rejects it on hashing.
	maxPasswordBytes = 72
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// NewAuthenticationService wires the auth flows. oauthSvc may be nil when
// Google login is not configured.
func NewAuthenticationService(
	cfg *config.Config,
	oauthSvc domain.OAuthService,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
) domain.AuthenticationService {
	return &authenticationService{
		config:      cfg,
		oauthSvc:    oauthSvc,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(cfg.JWTSecret),
		now:         time.Now,
	}
}

// Email and password

func (s *authenticationService) Register(ctx context.Context, email, password, firstName, lastName, userAgent, ipAddress string) (*domain.AuthResult, error) {
	creds := credentials{Email: domain.NormalizeEmail(email), Password: password}
	if err := domain.ValidateStruct(creds); err != nil {
		return nil, err
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.NewValidationError("password",
			fmt.Sprintf("maximum length is %d bytes", maxPasswordBytes), domain.ErrMaxLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:          creds.Email,
		HashedPassword: string(hashed),
		FirstName:      firstName,
		LastName:       lastName,
	}
	user.BeforeSave()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return s.authResult(ctx, user, userAgent, ipAddress)
}

// Login returns ErrInvalidCredentials for unknown emails, password-less
// accounts and wrong passwords alike.
func (s *authenticationService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.HashedPassword == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.authResult(ctx, user, userAgent, ipAddress)
}

func (s *authenticationService) authResult(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*domain.AuthResult, error) {
	tokenPair, err := s.GenerateTokenPair(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &domain.AuthResult{User: user, Tokens: tokenPair}, nil
}

// OAuth flow

func (s *authenticationService) GoogleEnabled() bool {
	return s.oauthSvc != nil
}

func (s *authenticationService) InitiateGoogleAuth(state string) string {
	if s.oauthSvc == nil {
		return ""
	}
	return s.oauthSvc.GetAuthURL(state)
}

func (s *authenticationService) CompleteGoogleAuth(ctx context.Context, code, userAgent, ipAddress string) (*domain.AuthResult, error) {
	if s.oauthSvc == nil {
		return nil, fmt.Errorf("google login: %w", domain.ErrUnauthorized)
	}

	token, err := s.oauthSvc.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	userInfo, err := s.oauthSvc.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.findOrCreateUser(ctx, userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	return s.authResult(ctx, user, userAgent, ipAddress)
}

// findOrCreateUser looks the user up by Google id, then links an existing
// account with the same email, and only then creates a new one.
func (s *authenticationService) findOrCreateUser(ctx context.Context, userInfo *domain.GoogleUserInfo) (*domain.User, error) {
	existingUser, err := s.userRepo.GetByGoogleID(ctx, userInfo.ID)
	if err == nil {
		return existingUser, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	byEmail, err := s.userRepo.GetByEmail(ctx, userInfo.Email)
	switch {
	case err == nil:
		if err := s.userRepo.LinkGoogleID(ctx, byEmail.ID, userInfo.ID); err != nil {
			return nil, err
		}
		byEmail.GoogleID = userInfo.ID
		return byEmail, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	newUser := &domain.User{
		GoogleID:  userInfo.ID,
		Email:     userInfo.Email,
		FirstName: userInfo.GivenName,
		LastName:  userInfo.FamilyName,
		Picture:   userInfo.Picture,
	}
	if newUser.FirstName == "" && newUser.LastName == "" {
		newUser.FirstName = userInfo.Name
	}
	newUser.BeforeSave()

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// Token management

func (s *authenticationService) GenerateTokenPair(ctx context.Context, userID uuid.UUID, userAgent, ipAddress string) (*domain.TokenPair, error) {
	sessionID := uuid.New().String()
	now := s.now()

	accessToken, err := s.signToken(userID, sessionID, tokenTypeAccess, now, AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signToken(userID, sessionID, tokenTypeRefresh, now, RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:           sessionID,
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(RefreshTokenDuration),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (s *authenticationService) signToken(userID uuid.UUID, sessionID, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// parseToken verifies signature, expiry and token type. Every failure wraps
// ErrInvalidToken; expiry additionally wraps jwt.ErrTokenExpired.
func (s *authenticationService) parseToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", domain.ErrInvalidToken)
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token, got %s", domain.ErrInvalidToken, tokenType, claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidToken)
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, fmt.Errorf("%w: invalid session id", domain.ErrInvalidToken)
	}
	return claims, nil
}

// ValidateAccessToken checks the token and that its session was not revoked.
func (s *authenticationService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.AuthInfo, error) {
	claims, err := s.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: session revoked", domain.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("session verification failed: %w", err)
	}
	if session.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: session owner mismatch", domain.ErrInvalidToken)
	}
	if s.now().After(session.ExpiresAt) {
		s.deleteSession(ctx, session.ID)
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastUsed(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to update session last used")
	}

	return &domain.AuthInfo{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
	}, nil
}

// RefreshAccessToken rotates the session: a new pair is issued and the old
// session is revoked, so each refresh token works once.
func (s *authenticationService) RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", domain.ErrInvalidToken)
	}

	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: session not found", domain.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("get session by refresh token: %w", err)
	}
	if session.ID != claims.SessionID {
		return nil, fmt.Errorf("%w: session mismatch", domain.ErrInvalidToken)
	}
	if s.now().After(session.ExpiresAt) {
		s.deleteSession(ctx, session.ID)
		return nil, domain.ErrSessionExpired
	}

	newTokenPair, err := s.GenerateTokenPair(ctx, session.UserID, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	s.deleteSession(ctx, session.ID)
	log.Debug().Str("old_session_id", session.ID).Str("session_id", newTokenPair.SessionID).Msg("session rotated")
	return newTokenPair, nil
}

func (s *authenticationService) deleteSession(ctx context.Context, sessionID string) {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete session")
	}
}

// Session management

func (s *authenticationService) RevokeSession(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *authenticationService) GetUserSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.sessionRepo.GetByUserID(ctx, userID)
}

func (s *authenticationService) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// Temporary auth codes

func (s *authenticationService) StoreTemporaryAuth(ctx context.Context, authCode string, authResult *domain.AuthResult, expiration time.Duration) error {
	if authCode == "" {
		return fmt.Errorf("auth code is required")
	}
	if authResult == nil {
		return fmt.Errorf("auth result is required")
	}

	authResultJSON, err := json.Marshal(authResult)
	if err != nil {
		return err
	}

	return s.sessionRepo.StoreTemporaryAuth(ctx, authCode, string(authResultJSON), expiration)
}

func (s *authenticationService) ExchangeAuthCode(ctx context.Context, authCode string) (*domain.AuthResult, error) {
	if authCode == "" {
		return nil, fmt.Errorf("%w: auth code is required", domain.ErrInvalidToken)
	}

	authData, err := s.sessionRepo.GetTemporaryAuth(ctx, authCode)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid or expired auth code", domain.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}

	var authResult domain.AuthResult
	if err := json.Unmarshal([]byte(authData), &authResult); err != nil {
		return nil, fmt.Errorf("decode auth result: %w", err)
	}
	return &authResult, nil
}
