package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/carzone/server/internal/domain/user"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/carzone/server/internal/utils/random"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthDomain defines authentication domain service interface.
type AuthDomain interface {
	// Password operations
	Register(ctx context.Context, req *model.RegisterRequest, client ClientInfo) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest, client ClientInfo) (*model.AuthResponse, error)

	// OAuth operations
	InitiateOAuth(ctx context.Context, provider string) (*model.OAuthURLResponse, error)
	CompleteOAuth(ctx context.Context, provider string, req *model.OAuthCallbackRequest, client ClientInfo) (*model.AuthResponse, error)

	// Token operations
	RefreshToken(ctx context.Context, refreshToken string, client ClientInfo) (*model.TokenPair, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*model.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateAccessToken(token string) (*outbound.JWTClaims, error)

	// PurgeExpiredTokens deletes refresh tokens past their expiry.
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// ClientInfo identifies the device a session was issued to.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type authDomain struct {
	userDomain    user.UserDomain
	tokenRepo     outbound.RefreshTokenDatabasePort
	oauthRegistry outbound.OAuthRegistryPort
	stateStore    outbound.OAuthStateStorePort
	jwt           outbound.JWTPort
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewAuthDomain creates a new auth domain service.
func NewAuthDomain(
	userDomain user.UserDomain,
	tokenRepo outbound.RefreshTokenDatabasePort,
	oauthRegistry outbound.OAuthRegistryPort,
	stateStore outbound.OAuthStateStorePort,
	jwt outbound.JWTPort,
	m *metrics.Metrics,
	logger *zap.Logger,
) AuthDomain {
	return &authDomain{
		userDomain:    userDomain,
		tokenRepo:     tokenRepo,
		oauthRegistry: oauthRegistry,
		stateStore:    stateStore,
		jwt:           jwt,
		metrics:       m,
		logger:        logger,
	}
}

// --- Password Operations ---

func (d *authDomain) Register(ctx context.Context, req *model.RegisterRequest, client ClientInfo) (*model.AuthResponse, error) {
	u, err := d.userDomain.Register(ctx, &user.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return nil, err
	}
	d.metrics.RecordAuthEvent("register", "password")
	return d.issue(ctx, u, client)
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest, client ClientInfo) (*model.AuthResponse, error) {
	u, err := d.userDomain.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		d.metrics.RecordAuthEvent("login_failed", "password")
		return nil, err
	}
	d.metrics.RecordAuthEvent("login", "password")
	return d.issue(ctx, u, client)
}

// --- OAuth Operations ---

func (d *authDomain) InitiateOAuth(ctx context.Context, provider string) (*model.OAuthURLResponse, error) {
	p := model.OAuthProvider(provider)
	if !p.IsValid() {
		return nil, ErrInvalidOAuthProvider
	}
	oauthProvider, err := d.oauthRegistry.Get(p.String())
	if err != nil {
		return nil, ErrInvalidOAuthProvider
	}

	state, err := random.Hex(16)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	if err := d.stateStore.Set(ctx, state, p.String()); err != nil {
		return nil, fmt.Errorf("store state: %w", err)
	}

	return &model.OAuthURLResponse{AuthURL: oauthProvider.GetAuthURL(state), State: state}, nil
}

func (d *authDomain) CompleteOAuth(ctx context.Context, provider string, req *model.OAuthCallbackRequest, client ClientInfo) (*model.AuthResponse, error) {
	p := model.OAuthProvider(provider)
	if !p.IsValid() {
		return nil, ErrInvalidOAuthProvider
	}

	storedProvider, err := d.stateStore.Get(ctx, req.State)
	if err != nil {
		return nil, ErrInvalidOAuthState
	}
	// A state is single-use whether or not the exchange succeeds.
	defer func() {
		if err := d.stateStore.Delete(ctx, req.State); err != nil {
			d.logger.Warn("failed to delete oauth state", zap.Error(err))
		}
	}()
	if storedProvider != p.String() {
		return nil, ErrInvalidOAuthState
	}

	oauthProvider, err := d.oauthRegistry.Get(p.String())
	if err != nil {
		return nil, ErrInvalidOAuthProvider
	}

	token, err := oauthProvider.Exchange(ctx, req.Code)
	if err != nil {
		d.metrics.RecordAuthEvent("login_failed", p.String())
		return nil, fmt.Errorf("%w: %v", ErrInvalidOAuthCode, err)
	}
	info, err := oauthProvider.GetUserInfo(ctx, token)
	if err != nil {
		d.metrics.RecordAuthEvent("login_failed", p.String())
		return nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}
	if info.Email == "" {
		return nil, ErrOAuthEmailMissing
	}
	info.Provider = p

	u, err := d.userDomain.FindOrCreateOAuthUser(ctx, info)
	if err != nil {
		return nil, err
	}
	d.metrics.RecordAuthEvent("login", p.String())
	return d.issue(ctx, u, client)
}

// --- Token Operations ---

func (d *authDomain) RefreshToken(ctx context.Context, refreshToken string, client ClientInfo) (*model.TokenPair, error) {
	stored, err := d.tokenRepo.GetByHash(ctx, d.jwt.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if stored == nil {
		return nil, ErrInvalidToken
	}
	if stored.RevokedAt != nil {
		// Reuse of a rotated token means it leaked; end every session of the user.
		d.logger.Warn("revoked refresh token reused", zap.String("user_id", stored.UserID.String()))
		if err := d.tokenRepo.RevokeAllForUser(ctx, stored.UserID); err != nil {
			d.logger.Error("failed to revoke sessions", zap.Error(err))
		}
		return nil, ErrRevokedToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrExpiredToken
	}

	u, err := d.userDomain.GetUser(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, user.ErrAccountSuspended
	}

	if err := d.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke old token: %w", err)
	}

	pair, err := d.generateTokenPair(ctx, u, client)
	if err != nil {
		return nil, err
	}
	d.metrics.RecordAuthEvent("refresh", "password")
	return pair, nil
}

func (d *authDomain) GetMe(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return d.userDomain.GetUser(ctx, userID)
}

func (d *authDomain) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := d.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	d.metrics.RecordAuthEvent("logout", "")
	return nil
}

func (d *authDomain) ValidateAccessToken(token string) (*outbound.JWTClaims, error) {
	claims, err := d.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (d *authDomain) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := d.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return n, nil
}

func (d *authDomain) issue(ctx context.Context, u *model.User, client ClientInfo) (*model.AuthResponse, error) {
	pair, err := d.generateTokenPair(ctx, u, client)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: pair, User: u}, nil
}

func (d *authDomain) generateTokenPair(ctx context.Context, u *model.User, client ClientInfo) (*model.TokenPair, error) {
	accessToken, expiresAt, err := d.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefreshToken, tokenHash, refreshExpiresAt, err := d.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	record := &model.RefreshToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: tokenHash,
		ExpiresAt: refreshExpiresAt,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
	}
	if err := d.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(d.jwt.AccessTokenExpiry().Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}
