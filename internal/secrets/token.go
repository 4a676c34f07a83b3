package secrets

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the engine's secrets in the OS keychain.
	KeyringService = "internhunt"
	GitHubAccount  = "github-token"
)

// GitHubToken returns the token from envName if set, otherwise from the
// keychain. An empty token and nil error means unauthenticated access.
func GitHubToken(envName string) (string, error) {
	if envName != "" {
		if tok := strings.TrimSpace(os.Getenv(envName)); tok != "" {
			return tok, nil
		}
	}
	tok, err := keyring.Get(KeyringService, GitHubAccount)
	switch {
	case err == nil:
		return strings.TrimSpace(tok), nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", nil
	default:
		return "", errors.Wrap(err, "read github token from keychain")
	}
}

func SetGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	return errors.Wrap(keyring.Set(KeyringService, GitHubAccount, token), "store github token")
}

// DeleteGitHubToken succeeds when no token is stored.
func DeleteGitHubToken() error {
	err := keyring.Delete(KeyringService, GitHubAccount)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return errors.Wrap(err, "delete github token")
}
