package crypto

import (
	"testing"

	"github.com/juju/errors"
)

func TestEnvKeyring(t *testing.T) {
	t.Setenv(KeyEnv, "s3cret")

	k := NewKeyring()
	if !k.IsAvailable() {
		t.Fatal("expected keyring to be available")
	}
	key, err := k.GetKey()
	if err != nil || key != "s3cret" {
		t.Fatalf("unexpected key %q: %v", key, err)
	}
}

func TestEnvKeyring_Unset(t *testing.T) {
	t.Setenv(KeyEnv, "")

	k := &envKeyring{}
	if k.IsAvailable() {
		t.Fatal("expected keyring to be unavailable")
	}
	if _, err := k.GetKey(); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := k.SetKey(""); !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
	if err := k.SetKey("x"); !errors.IsNotSupported(err) {
		t.Fatalf("expected not supported, got %v", err)
	}
}
