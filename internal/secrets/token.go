package secrets

import (
	"fmt"

	"github.com/dohr-michael/capigen/internal/config"
)

// ResolveConfig decrypts an encrypted access token in place. The key file at
// keyPath is only read when the token is actually encrypted.
func ResolveConfig(cfg *config.Config, keyPath string) error {
	if !IsEncrypted(cfg.AccessToken) {
		return nil
	}
	kr, err := OpenKeyring(keyPath)
	if err != nil {
		return err
	}
	token, err := kr.Open(cfg.AccessToken)
	if err != nil {
		return fmt.Errorf("decrypt access token: %w", err)
	}
	cfg.AccessToken = token
	return nil
}

// SealConfig returns a copy of cfg whose access token is encrypted with kr.
// Empty and already encrypted tokens are kept as they are.
func SealConfig(cfg config.Config, kr *Keyring) (config.Config, error) {
	if cfg.AccessToken == "" || IsEncrypted(cfg.AccessToken) {
		return cfg, nil
	}
	blob, err := kr.Seal(cfg.AccessToken)
	if err != nil {
		return cfg, fmt.Errorf("encrypt access token: %w", err)
	}
	cfg.AccessToken = blob
	return cfg, nil
}
