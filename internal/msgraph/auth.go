package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/tsheet/internal/logger"
	"github.com/Tiliavir/tsheet/internal/secrets"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// TokenStore persists Graph tokens in the OS keyring. When the keyring is
// unavailable it uses <Dir>/auth/msgraph_tokens.json instead.
type TokenStore struct {
	Dir string
}

func (s TokenStore) filePath() string {
	return filepath.Join(s.Dir, "auth", "msgraph_tokens.json")
}

// Load returns the saved token, or nil if there is none.
func (s TokenStore) Load() (*oauth2.Token, error) {
	raw, err := secrets.Get(secrets.MSGraphTokens)
	switch {
	case err == nil:
		return decodeToken([]byte(raw), "keyring")
	case errors.Is(err, secrets.ErrNotFound):
		// Tokens saved before the keyring became available may still be on disk.
	default:
		logger.Debug("keyring unavailable, reading token file", "err", err)
	}

	path := s.filePath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	return decodeToken(data, path)
}

func decodeToken(data []byte, where string) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token in %s (run 'tsheet outlook logout' to re-authenticate): %w", where, err)
	}
	return &tok, nil
}

// Save persists a token.
func (s TokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	if err := secrets.Set(secrets.MSGraphTokens, string(data)); err == nil {
		return nil
	}
	logger.Debug("keyring unavailable, writing token file")

	path := s.filePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Clear forgets any saved token.
func (s TokenStore) Clear() error {
	if err := secrets.Delete(secrets.MSGraphTokens); err != nil && !errors.Is(err, secrets.ErrNotFound) {
		logger.Debug("could not delete keyring token", "err", err)
	}
	if err := os.Remove(s.filePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// Authenticate returns a valid token for Microsoft Graph. It loads the saved
// token, refreshes it if needed, or runs the device code flow.
func Authenticate(ctx context.Context, store TokenStore, tenantID, clientID string) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(tenantID, clientID)

	tok, err := store.Load()
	if err != nil {
		logger.Warn("discarding saved token", "err", err)
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := store.Save(refreshed); err != nil {
				logger.Warn("could not save refreshed token", "err", err)
			}
			return refreshed, cfg, nil
		}
		logger.Warn("token refresh failed, re-authenticating", "err", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Println()
	fmt.Println("To sign in, use a web browser to open the page:")
	fmt.Printf("  %s\n", resp.VerificationURI)
	fmt.Printf("Enter the code: %s\n", resp.UserCode)
	fmt.Println()

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := store.Save(newTok); err != nil {
		logger.Warn("could not save token", "err", err)
	}
	return newTok, cfg, nil
}
