// Package auth runs the Spotify OAuth2 authorization code flow and
// persists the resulting token between runs.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	// Spotify requires the explicit IPv4 loopback form for local
	// redirect URIs.
	redirectURI     = "http://127.0.0.1:8123/callback"
	callbackAddr    = "127.0.0.1:8123"
	callbackTimeout = 2 * time.Minute
)

var (
	ErrMissingCredentials = errors.New("missing spotify client id or secret")
	ErrAuthTimeout        = errors.New("timed out waiting for the OAuth callback")
	ErrStateMismatch      = errors.New("OAuth state mismatch")
)

type Authenticator struct {
	auth  *spotifyauth.Authenticator
	store *TokenStore
}

// New builds an Authenticator for the playback-reading scope. The
// client id and secret come from configuration, not the environment.
func New(clientID, clientSecret string) (*Authenticator, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	store, err := DefaultTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to locate token store: %w", err)
	}

	return &Authenticator{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithScopes(spotifyauth.ScopeUserReadPlaybackState),
		),
		store: store,
	}, nil
}

// Client returns an authenticated Spotify client, reusing the stored
// token when one works and running the browser flow otherwise.
func (a *Authenticator) Client(ctx context.Context) (*spotify.Client, error) {
	token, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored token: %w", err)
	}

	if token != nil {
		client := spotify.New(a.auth.Client(ctx, token), spotify.WithRetry(true))
		if _, err := client.CurrentUser(ctx); err == nil {
			// oauth2 may have refreshed the token under us.
			if refreshed, err := client.Token(); err == nil && refreshed.AccessToken != token.AccessToken {
				_ = a.store.Save(refreshed)
			}
			return client, nil
		}
	}

	return a.login(ctx)
}

func (a *Authenticator) login(ctx context.Context) (*spotify.Client, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, tokenCh, errCh)
	})
	server := &http.Server{Addr: callbackAddr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server failed: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Println("\nOpen this URL in your browser to log in:")
	fmt.Println(a.auth.AuthURL(state))
	fmt.Println("\nWaiting for the callback...")

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(callbackTimeout):
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := a.store.Save(token); err != nil {
		fmt.Printf("warning: failed to store token: %v\n", err)
	}

	return spotify.New(a.auth.Client(ctx, token), spotify.WithRetry(true)), nil
}

func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		errCh <- ErrStateMismatch
		return
	}

	if msg := r.URL.Query().Get("error"); msg != "" {
		http.Error(w, "authentication failed: "+msg, http.StatusBadRequest)
		errCh <- fmt.Errorf("spotify auth error: %s", msg)
		return
	}

	token, err := a.auth.Token(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "failed to exchange code", http.StatusInternalServerError)
		errCh <- fmt.Errorf("failed to exchange code for token: %w", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<!DOCTYPE html><html><body><h1>Logged in</h1><p>You can close this window.</p></body></html>")
	tokenCh <- token
}

// Logout removes the stored token.
func (a *Authenticator) Logout() error {
	return a.store.Delete()
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
