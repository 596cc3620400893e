package gmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// ErrMissingRefreshToken is returned when Google grants access without offline credentials
var ErrMissingRefreshToken = errors.New("google did not return a refresh token")

// TokenUpdateFunc is called when the token source hands out a refreshed token
type TokenUpdateFunc func(token *oauth2.Token) error

type Service struct {
	config *oauth2.Config
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			slog.Default().Warn("failed to persist refreshed token", "component", "Gmail", "error", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       []string{people.ContactsReadonlyScope},
		},
	}
}

// AuthCodeURL returns the consent URL; offline access is requested so a refresh token is issued
func (s *Service) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token carrying a refresh token
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, ErrMissingRefreshToken
	}
	return token, nil
}

// GetPeopleService creates a People API client authorized by the stored refresh token
func (s *Service) GetPeopleService(ctx context.Context, refreshToken string, onTokenRefresh TokenUpdateFunc) (*people.Service, error) {
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now(),
	}

	wrappedSource := &notifyTokenSource{
		src:      s.config.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)
	srv, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create People service: %w", err)
	}
	return srv, nil
}
