package kayako

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestGenerateSignatureShape(t *testing.T) {
	sig := GenerateSignature("key-1", "secret-1")

	if sig.APIKey != "key-1" {
		t.Errorf("APIKey = %q, want %q", sig.APIKey, "key-1")
	}
	if len(sig.Salt) != 32 {
		t.Errorf("salt length = %d, want 32 hex characters", len(sig.Salt))
	}
	if _, err := hex.DecodeString(sig.Salt); err != nil {
		t.Errorf("salt %q is not valid hex: %v", sig.Salt, err)
	}
	if _, err := base64.StdEncoding.DecodeString(sig.Signature); err != nil {
		t.Errorf("signature %q is not valid base64: %v", sig.Signature, err)
	}
}

func TestGenerateSignatureRecomputable(t *testing.T) {
	const secret = "shared-secret"
	sig := GenerateSignature("key", secret)

	// The signature must be base64(SHA-256(saltHex + secret)) with the
	// salt concatenated as text.
	sum := sha256.Sum256([]byte(sig.Salt + secret))
	want := base64.StdEncoding.EncodeToString(sum[:])
	if sig.Signature != want {
		t.Errorf("signature = %q, want recomputed %q", sig.Signature, want)
	}
}

func TestGenerateSignatureFreshPerCall(t *testing.T) {
	a := GenerateSignature("key", "secret")
	b := GenerateSignature("key", "secret")

	if a.Salt == b.Salt {
		t.Errorf("two calls produced the same salt %q", a.Salt)
	}
	if a.Signature == b.Signature {
		t.Errorf("two calls produced the same signature %q", a.Signature)
	}
}
