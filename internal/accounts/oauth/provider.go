// Package oauth adapts external identity providers (Google, GitHub) into the
// normalized profile the provisioner consumes. All provider-specific wire
// formats stay in here.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/pkg/cryptox"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// Endpoint URLs are vars so tests can point them at a local server.
var (
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// Manager holds the configured provider set. Providers without credentials
// are simply absent; AuthURL and Exchange fail for them.
type Manager struct {
	configs map[string]*oauth2.Config
}

// Credentials is one provider's client id/secret pair.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// NewManager builds the provider set from credentials. redirectURL is the
// shared callback, e.g. https://accounts.example.com/v1/login/callback.
func NewManager(redirectURL string, googleCreds, githubCreds Credentials) *Manager {
	m := &Manager{configs: make(map[string]*oauth2.Config)}

	if googleCreds.ClientID != "" {
		m.configs[ProviderGoogle] = &oauth2.Config{
			ClientID:     googleCreds.ClientID,
			ClientSecret: googleCreds.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}
	if githubCreds.ClientID != "" {
		m.configs[ProviderGitHub] = &oauth2.Config{
			ClientID:     githubCreds.ClientID,
			ClientSecret: githubCreds.ClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
		}
	}
	return m
}

// Has reports whether the named provider is configured.
func (m *Manager) Has(provider string) bool {
	_, ok := m.configs[provider]
	return ok
}

// StateToken generates the opaque anti-CSRF state for a login redirect.
func (m *Manager) StateToken() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

// AuthURL builds the provider's authorization redirect for the given state.
func (m *Manager) AuthURL(provider, state string) (string, error) {
	conf, ok := m.configs[provider]
	if !ok {
		return "", fmt.Errorf("oauth: unknown provider %q", provider)
	}
	return conf.AuthCodeURL(state), nil
}

// Exchange trades the callback code for a provider token.
func (m *Manager) Exchange(ctx context.Context, provider, code string) (*oauth2.Token, error) {
	conf, ok := m.configs[provider]
	if !ok {
		return nil, fmt.Errorf("oauth: unknown provider %q", provider)
	}
	return conf.Exchange(ctx, code)
}

// FetchProfile pulls the signed-in user's profile from the provider and
// normalizes it. The result still passes through Profile.Validate at the
// provisioning boundary.
func (m *Manager) FetchProfile(ctx context.Context, provider string, token *oauth2.Token) (domain.Profile, error) {
	conf, ok := m.configs[provider]
	if !ok {
		return domain.Profile{}, fmt.Errorf("oauth: unknown provider %q", provider)
	}

	client := conf.Client(ctx, token)
	switch provider {
	case ProviderGoogle:
		return fetchGoogleProfile(ctx, client)
	case ProviderGitHub:
		return fetchGitHubProfile(ctx, client)
	default:
		return domain.Profile{}, fmt.Errorf("oauth: unknown provider %q", provider)
	}
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (domain.Profile, error) {
	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, googleUserInfoURL, &info); err != nil {
		return domain.Profile{}, err
	}

	// Only verified emails may drive account linking.
	if !info.EmailVerified {
		return domain.Profile{}, fmt.Errorf("oauth: google email not verified")
	}

	return domain.Profile{
		Provider:    ProviderGoogle,
		Subject:     info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
		AvatarURL:   info.Picture,
	}, nil
}

func fetchGitHubProfile(ctx context.Context, client *http.Client) (domain.Profile, error) {
	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, githubUserURL, &user); err != nil {
		return domain.Profile{}, err
	}

	// The public profile email carries no verification flag, so the emails
	// endpoint is always consulted for the verified primary.
	email, err := fetchGitHubPrimaryEmail(ctx, client)
	if err != nil {
		return domain.Profile{}, err
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}

	return domain.Profile{
		Provider:    ProviderGitHub,
		Subject:     strconv.FormatInt(user.ID, 10),
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   user.AvatarURL,
	}, nil
}

func fetchGitHubPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, githubEmailsURL, &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("oauth: no verified primary email on github account")
}

func getJSON(ctx context.Context, client *http.Client, url string, target any) error {
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
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("oauth: %s returned %d: %s", url, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
