package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Config holds OAuth provider configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Configured reports whether the client credentials are set.
func (c *Config) Configured() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

// baseProvider holds the OAuth2 plumbing shared by all providers.
type baseProvider struct {
	config *oauth2.Config
}

func (p *baseProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *baseProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// getJSON calls an API endpoint with the access token and decodes the body.
func (p *baseProvider) getJSON(ctx context.Context, accessToken, url string, dest any) error {
	client := p.config.Client(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// --- GitHub Provider ---

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type githubProvider struct {
	baseProvider
}

// NewGitHubProvider creates a new GitHub OAuth provider.
func NewGitHubProvider(cfg *Config) outbound.OAuthProviderPort {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}
	return &githubProvider{baseProvider{config: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint:     github.Endpoint,
	}}}
}

func (p *githubProvider) GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error) {
	var data struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := p.getJSON(ctx, accessToken, githubUserURL, &data); err != nil {
		return nil, fmt.Errorf("github user: %w", err)
	}

	// The profile email is empty when the user keeps it private.
	email := data.Email
	if email == "" {
		email, _ = p.fetchPrimaryEmail(ctx, accessToken)
	}

	name := data.Name
	if name == "" {
		name = data.Login
	}

	return &model.OAuthUserInfo{
		ID:        strconv.FormatInt(data.ID, 10),
		Email:     email,
		Name:      name,
		AvatarURL: data.AvatarURL,
		Provider:  model.OAuthProviderGitHub,
	}, nil
}

func (p *githubProvider) fetchPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := p.getJSON(ctx, accessToken, githubEmailsURL, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("no primary email found")
}

var _ outbound.OAuthProviderPort = (*githubProvider)(nil)

// --- Google Provider ---

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleProvider struct {
	baseProvider
}

// NewGoogleProvider creates a new Google OAuth provider.
func NewGoogleProvider(cfg *Config) outbound.OAuthProviderPort {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &googleProvider{baseProvider{config: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}}}
}

func (p *googleProvider) GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error) {
	var data struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := p.getJSON(ctx, accessToken, googleUserInfoURL, &data); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}

	email := data.Email
	if !data.VerifiedEmail {
		email = ""
	}

	return &model.OAuthUserInfo{
		ID:        data.ID,
		Email:     email,
		Name:      data.Name,
		AvatarURL: data.Picture,
		Provider:  model.OAuthProviderGoogle,
	}, nil
}

var _ outbound.OAuthProviderPort = (*googleProvider)(nil)
