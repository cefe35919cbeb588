package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleService runs the Google sign-in flow. Google only establishes
// who the person is; the employee record and roles still come from the
// upstream timesheet API.
type GoogleService interface {
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState() string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// Exchange trades the callback code for an OAuth2 token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchUser retrieves the Google account behind the token.
	FetchUser(ctx context.Context, token *oauth2.Token) (GoogleAccount, error)
}

type GoogleAccount struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleServiceImpl struct {
	config *oauth2.Config
}

func NewGoogleService(clientID, clientSecret, redirectURL string, scopes []string) GoogleService {
	return &GoogleServiceImpl{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}}
}

func (g *GoogleServiceImpl) GenerateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

func (g *GoogleServiceImpl) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *GoogleServiceImpl) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.config.Exchange(ctx, code)
}

func (g *GoogleServiceImpl) FetchUser(ctx context.Context, token *oauth2.Token) (GoogleAccount, error) {
	client := g.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return GoogleAccount{}, err
	}
	defer resp.Body.Close()

	var account GoogleAccount
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return GoogleAccount{}, err
	}
	return account, nil
}
