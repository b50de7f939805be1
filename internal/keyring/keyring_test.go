package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetIntentSecret(t *testing.T) {
	gokeyring.MockInit()

	if err := SetIntentSecret("s3cret"); err != nil {
		t.Fatalf("SetIntentSecret() failed: %v", err)
	}

	got, err := GetIntentSecret()
	if err != nil {
		t.Fatalf("GetIntentSecret() failed: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("GetIntentSecret() = %q, want %q", got, "s3cret")
	}
}

func TestSetIntentSecretEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetIntentSecret(""); err == nil {
		t.Error("SetIntentSecret(\"\") should return an error")
	}
}

func TestGetIntentSecretNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteIntentSecret()

	if _, err := GetIntentSecret(); err != ErrNotFound {
		t.Errorf("GetIntentSecret() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteIntentSecret(t *testing.T) {
	gokeyring.MockInit()

	if err := SetIntentSecret("s3cret"); err != nil {
		t.Fatalf("SetIntentSecret() failed: %v", err)
	}
	if err := DeleteIntentSecret(); err != nil {
		t.Fatalf("DeleteIntentSecret() failed: %v", err)
	}
	if err := DeleteIntentSecret(); err != ErrNotFound {
		t.Errorf("DeleteIntentSecret() error = %v, want %v", err, ErrNotFound)
	}
}

func TestEnsureIntentSecretCreatesOnce(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteIntentSecret()

	first, persistent := EnsureIntentSecret()
	if !persistent {
		t.Fatal("expected secret to be stored in the mock keyring")
	}
	if first == "" {
		t.Fatal("expected a generated secret")
	}

	second, _ := EnsureIntentSecret()
	if second != first {
		t.Errorf("expected the stored secret to be reused, got %q then %q", first, second)
	}
}

func TestEnsureIntentSecretFallsBack(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	defer gokeyring.MockInit()

	secret, persistent := EnsureIntentSecret()
	if persistent {
		t.Error("expected an ephemeral secret when the keyring fails")
	}
	if secret == "" {
		t.Error("expected a non-empty ephemeral secret")
	}
}

func TestRotateIntentSecret(t *testing.T) {
	gokeyring.MockInit()

	first, err := RotateIntentSecret()
	if err != nil {
		t.Fatalf("RotateIntentSecret() failed: %v", err)
	}
	second, err := RotateIntentSecret()
	if err != nil {
		t.Fatalf("RotateIntentSecret() failed: %v", err)
	}
	if first == second {
		t.Error("expected rotation to produce a new secret")
	}
	if got, _ := GetIntentSecret(); got != second {
		t.Errorf("expected stored secret %q, got %q", second, got)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("expected mock keyring to be available")
	}
}
