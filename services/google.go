package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/notekit/server/database"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig holds the OAuth client settings for Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	FrontendURL  string
}

// GoogleAuthService implements Google sign-in: it exchanges the auth code,
// fetches the profile, upserts the account, and issues the same JWT the
// password login does.
type GoogleAuthService struct {
	auth        *AuthService
	store       *database.Store
	oauth       *oauth2.Config
	frontendURL string
}

func NewGoogleAuthService(auth *AuthService, store *database.Store, config GoogleConfig) *GoogleAuthService {
	return &GoogleAuthService{
		auth:        auth,
		store:       store,
		frontendURL: config.FrontendURL,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// LoginURL returns the Google consent page URL to redirect the user to.
func (s *GoogleAuthService) LoginURL() string {
	return s.oauth.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback handles the OAuth redirect: exchanges code for tokens, loads
// the Google profile, ensures an account exists, and returns the frontend
// URL to redirect to with the session token attached.
func (s *GoogleAuthService) Callback(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", database.Invalidf("missing authorization code")
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := s.oauth.Client(ctx, tok)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.Email == "" {
		return "", database.Invalidf("no email from Google account")
	}

	users := s.store.Users()
	if _, err := users.Get(ctx, info.Email); errors.Is(err, database.ErrNotFound) {
		user := database.User{
			Name:         info.Name,
			Email:        info.Email,
			AuthProvider: "google",
		}
		if err := users.Put(ctx, info.Email, user); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	token, err := s.auth.CreateToken(info.Email)
	if err != nil {
		return "", err
	}

	redirect := fmt.Sprintf("%s/login-success?token=%s&name=%s&email=%s",
		s.frontendURL,
		url.QueryEscape(token),
		url.QueryEscape(info.Name),
		url.QueryEscape(info.Email),
	)
	return redirect, nil
}
