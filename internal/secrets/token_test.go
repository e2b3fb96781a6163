package secrets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dohr-michael/capigen/internal/config"
)

func TestSealConfigResolveConfig(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), ".age-key")
	if err := GenerateIdentity(keyPath); err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	kr, err := OpenKeyring(keyPath)
	if err != nil {
		t.Fatalf("OpenKeyring: %v", err)
	}

	cfg := config.Default()
	cfg.AccessToken = "EAAtoken1234"

	sealed, err := SealConfig(cfg, kr)
	if err != nil {
		t.Fatalf("SealConfig: %v", err)
	}
	if !IsEncrypted(sealed.AccessToken) {
		t.Fatalf("token not sealed: %q", sealed.AccessToken)
	}
	if cfg.AccessToken != "EAAtoken1234" {
		t.Error("SealConfig modified its input")
	}

	again, err := SealConfig(sealed, kr)
	if err != nil {
		t.Fatalf("SealConfig twice: %v", err)
	}
	if again.AccessToken != sealed.AccessToken {
		t.Error("sealed token was encrypted twice")
	}

	if err := ResolveConfig(&sealed, keyPath); err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if sealed.AccessToken != "EAAtoken1234" {
		t.Errorf("AccessToken = %q, want EAAtoken1234", sealed.AccessToken)
	}
}

func TestResolveConfig_PlainTokenNeedsNoKey(t *testing.T) {
	cfg := config.Default()
	cfg.AccessToken = "plain"
	if err := ResolveConfig(&cfg, filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
}

func TestResolveConfig_MissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.AccessToken = "ENC[age:abc]"
	err := ResolveConfig(&cfg, filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrNoKey) {
		t.Fatalf("err = %v, want ErrNoKey", err)
	}
}
