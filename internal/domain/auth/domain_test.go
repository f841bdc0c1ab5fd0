package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carzone/server/internal/domain/user"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock Implementations ---

type MockUserDomain struct {
	mock.Mock
}

func (m *MockUserDomain) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDomain) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDomain) Register(ctx context.Context, input *user.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDomain) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDomain) FindOrCreateOAuthUser(ctx context.Context, info *model.OAuthUserInfo) (*model.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDomain) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserDomain) UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDomain) DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockUserDomain) SeedAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockTokenRepo struct {
	mock.Mock
}

func (m *MockTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOAuthRegistry struct {
	mock.Mock
}

func (m *MockOAuthRegistry) Get(provider string) (outbound.OAuthProviderPort, error) {
	args := m.Called(provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(outbound.OAuthProviderPort), args.Error(1)
}

func (m *MockOAuthRegistry) List() []string {
	return m.Called().Get(0).([]string)
}

type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetAuthURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthProvider) GetUserInfo(ctx context.Context, token string) (*model.OAuthUserInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthUserInfo), args.Error(1)
}

type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Set(ctx context.Context, state, provider string) error {
	return m.Called(ctx, state, provider).Error(0)
}

func (m *MockStateStore) Get(ctx context.Context, state string) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Delete(ctx context.Context, state string) error {
	return m.Called(ctx, state).Error(0)
}

// fakeJWT issues predictable tokens.
type fakeJWT struct{}

func (fakeJWT) GenerateAccessToken(u *model.User) (string, time.Time, error) {
	return "access-" + u.ID.String(), time.Now().Add(15 * time.Minute), nil
}

func (fakeJWT) GenerateRefreshToken() (string, string, time.Time, error) {
	return "raw-refresh", "hash:raw-refresh", time.Now().Add(7 * 24 * time.Hour), nil
}

func (fakeJWT) ValidateAccessToken(token string) (*outbound.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("signature is invalid")
	}
	return &outbound.JWTClaims{UserID: uuid.New(), Role: model.UserRoleCustomer}, nil
}

func (fakeJWT) HashRefreshToken(token string) string {
	return "hash:" + token
}

func (fakeJWT) AccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

type fixture struct {
	users    *MockUserDomain
	tokens   *MockTokenRepo
	registry *MockOAuthRegistry
	states   *MockStateStore
	domain   AuthDomain
}

func newFixture() *fixture {
	f := &fixture{
		users:    new(MockUserDomain),
		tokens:   new(MockTokenRepo),
		registry: new(MockOAuthRegistry),
		states:   new(MockStateStore),
	}
	f.domain = NewAuthDomain(f.users, f.tokens, f.registry, f.states, fakeJWT{}, nil, zap.NewNop())
	return f
}

func activeUser() *model.User {
	return &model.User{ID: uuid.New(), Email: "ada@example.com", Role: model.UserRoleCustomer, Status: model.UserStatusActive}
}

var client = ClientInfo{UserAgent: "test", IPAddress: "127.0.0.1"}

// --- Password ---

func TestRegister_IssuesTokens(t *testing.T) {
	f := newFixture()
	u := activeUser()
	f.users.On("Register", mock.Anything, mock.MatchedBy(func(in *user.RegisterInput) bool {
		return in.Email == "ada@example.com" && in.Role == ""
	})).Return(u, nil)
	f.tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == u.ID && rt.TokenHash == "hash:raw-refresh" && rt.IPAddress == "127.0.0.1"
	})).Return(nil)

	resp, err := f.domain.Register(context.Background(), &model.RegisterRequest{Email: "ada@example.com", Password: "supersecret", Name: "Ada"}, client)
	require.NoError(t, err)
	assert.Equal(t, "access-"+u.ID.String(), resp.Token.AccessToken)
	assert.Equal(t, "raw-refresh", resp.Token.RefreshToken)
	assert.Equal(t, int64(900), resp.Token.ExpiresIn)
	assert.Equal(t, u, resp.User)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture()
	f.users.On("Authenticate", mock.Anything, "ada@example.com", "nope").Return(nil, user.ErrInvalidCredentials)

	_, err := f.domain.Login(context.Background(), &model.LoginRequest{Email: "ada@example.com", Password: "nope"}, client)
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	f.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Refresh ---

func TestRefreshToken_Rotates(t *testing.T) {
	f := newFixture()
	u := activeUser()
	stored := &model.RefreshToken{ID: uuid.New(), UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}

	f.tokens.On("GetByHash", mock.Anything, "hash:old").Return(stored, nil)
	f.users.On("GetUser", mock.Anything, u.ID).Return(u, nil)
	f.tokens.On("Revoke", mock.Anything, stored.ID).Return(nil)
	f.tokens.On("Create", mock.Anything, mock.Anything).Return(nil)

	pair, err := f.domain.RefreshToken(context.Background(), "old", client)
	require.NoError(t, err)
	assert.Equal(t, "raw-refresh", pair.RefreshToken)
	f.tokens.AssertExpectations(t)
}

func TestRefreshToken_Unknown(t *testing.T) {
	f := newFixture()
	f.tokens.On("GetByHash", mock.Anything, "hash:bogus").Return(nil, nil)

	_, err := f.domain.RefreshToken(context.Background(), "bogus", client)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken_Expired(t *testing.T) {
	f := newFixture()
	stored := &model.RefreshToken{ID: uuid.New(), UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}
	f.tokens.On("GetByHash", mock.Anything, "hash:old").Return(stored, nil)

	_, err := f.domain.RefreshToken(context.Background(), "old", client)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshToken_ReuseRevokesAllSessions(t *testing.T) {
	f := newFixture()
	revokedAt := time.Now().Add(-time.Minute)
	stored := &model.RefreshToken{ID: uuid.New(), UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &revokedAt}
	f.tokens.On("GetByHash", mock.Anything, "hash:old").Return(stored, nil)
	f.tokens.On("RevokeAllForUser", mock.Anything, stored.UserID).Return(nil)

	_, err := f.domain.RefreshToken(context.Background(), "old", client)
	assert.ErrorIs(t, err, ErrRevokedToken)
	f.tokens.AssertExpectations(t)
}

func TestRefreshToken_SuspendedUser(t *testing.T) {
	f := newFixture()
	u := activeUser()
	u.Status = model.UserStatusSuspended
	stored := &model.RefreshToken{ID: uuid.New(), UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}
	f.tokens.On("GetByHash", mock.Anything, "hash:old").Return(stored, nil)
	f.users.On("GetUser", mock.Anything, u.ID).Return(u, nil)

	_, err := f.domain.RefreshToken(context.Background(), "old", client)
	assert.ErrorIs(t, err, user.ErrAccountSuspended)
}

// --- OAuth ---

func TestInitiateOAuth(t *testing.T) {
	f := newFixture()
	p := new(MockOAuthProvider)
	f.registry.On("Get", "github").Return(p, nil)
	f.states.On("Set", mock.Anything, mock.AnythingOfType("string"), "github").Return(nil)
	p.On("GetAuthURL", mock.AnythingOfType("string")).Return("https://github.com/login/oauth/authorize?state=x")

	resp, err := f.domain.InitiateOAuth(context.Background(), "github")
	require.NoError(t, err)
	assert.Len(t, resp.State, 32)
	assert.Contains(t, resp.AuthURL, "github.com")
}

func TestInitiateOAuth_UnknownProvider(t *testing.T) {
	f := newFixture()
	_, err := f.domain.InitiateOAuth(context.Background(), "myspace")
	assert.ErrorIs(t, err, ErrInvalidOAuthProvider)
}

func TestCompleteOAuth(t *testing.T) {
	f := newFixture()
	p := new(MockOAuthProvider)
	u := activeUser()

	f.states.On("Get", mock.Anything, "st").Return("google", nil)
	f.states.On("Delete", mock.Anything, "st").Return(nil)
	f.registry.On("Get", "google").Return(p, nil)
	p.On("Exchange", mock.Anything, "code").Return("tok", nil)
	p.On("GetUserInfo", mock.Anything, "tok").Return(&model.OAuthUserInfo{Email: u.Email}, nil)
	f.users.On("FindOrCreateOAuthUser", mock.Anything, mock.MatchedBy(func(info *model.OAuthUserInfo) bool {
		return info.Provider == model.OAuthProviderGoogle
	})).Return(u, nil)
	f.tokens.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.domain.CompleteOAuth(context.Background(), "google", &model.OAuthCallbackRequest{Code: "code", State: "st"}, client)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	f.states.AssertExpectations(t)
}

func TestCompleteOAuth_StateForOtherProvider(t *testing.T) {
	f := newFixture()
	f.states.On("Get", mock.Anything, "st").Return("github", nil)
	f.states.On("Delete", mock.Anything, "st").Return(nil)

	_, err := f.domain.CompleteOAuth(context.Background(), "google", &model.OAuthCallbackRequest{Code: "code", State: "st"}, client)
	assert.ErrorIs(t, err, ErrInvalidOAuthState)
	f.registry.AssertNotCalled(t, "Get", mock.Anything)
}

func TestCompleteOAuth_ExchangeFails(t *testing.T) {
	f := newFixture()
	p := new(MockOAuthProvider)
	f.states.On("Get", mock.Anything, "st").Return("github", nil)
	f.states.On("Delete", mock.Anything, "st").Return(nil)
	f.registry.On("Get", "github").Return(p, nil)
	p.On("Exchange", mock.Anything, "bad").Return("", errors.New("bad_verification_code"))

	_, err := f.domain.CompleteOAuth(context.Background(), "github", &model.OAuthCallbackRequest{Code: "bad", State: "st"}, client)
	assert.ErrorIs(t, err, ErrInvalidOAuthCode)
}

// --- Misc ---

func TestValidateAccessToken(t *testing.T) {
	f := newFixture()
	claims, err := f.domain.ValidateAccessToken("good")
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleCustomer, claims.Role)

	_, err = f.domain.ValidateAccessToken("forged")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.tokens.On("RevokeAllForUser", mock.Anything, id).Return(nil)

	require.NoError(t, f.domain.Logout(context.Background(), id))
	f.tokens.AssertExpectations(t)
}
