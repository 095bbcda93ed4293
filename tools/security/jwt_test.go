package security

import (
	"errors"
	"testing"
	"time"

	errs "relaychat/tools/errs"
)

var testSecret = []byte("unit-test-secret")

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions(testSecret)

	token, exp, err := Generate(opts, Identity{ID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", exp)
	}

	id, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if id.ID != "u-1" || id.Username != "alice" {
		t.Errorf("identity mismatch: %+v", id)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	opts := DefaultOptions(testSecret)
	_, err := Verify(opts, "   ")
	if !errors.Is(err, errs.ErrTokenMissing) {
		t.Errorf("want ErrTokenMissing, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions(testSecret), Identity{ID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	_, err = Verify(DefaultOptions([]byte("other-secret")), token)
	if !errors.Is(err, errs.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	opts := DefaultOptions(testSecret)
	opts.TTL = -time.Minute

	// Generate clamps non-positive TTL, so sign an already expired token by hand.
	token, _, err := Generate(Options{Secret: testSecret, Alg: "HS256", TTL: time.Nanosecond}, Identity{ID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // exp has second resolution

	_, err = Verify(opts, token)
	if !errors.Is(err, errs.ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	opts := DefaultOptions(testSecret)
	token, _, err := Generate(opts, Identity{ID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	_, err = Verify(opts, token+"x")
	if !errors.Is(err, errs.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}
