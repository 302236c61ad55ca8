package kayako

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// saltBytes is the length of the random salt before hex encoding.
const saltBytes = 16

// Signature is the authentication triple the Kayako API requires on every
// request. It is generated fresh per outbound call and never reused; the
// upstream may reject stale or replayed salts.
type Signature struct {
	APIKey    string
	Salt      string // 32 hex characters
	Signature string // base64(SHA-256(salt + secret))
}

// GenerateSignature derives a fresh authentication triple from the shared
// secret. The salt hex string is concatenated with the secret as text and
// hashed; the digest is base64-encoded.
func GenerateSignature(apiKey, secretKey string) Signature {
	var raw [saltBytes]byte
	rand.Read(raw[:]) // never fails as of go 1.24
	salt := hex.EncodeToString(raw[:])

	sum := sha256.Sum256([]byte(salt + secretKey))
	return Signature{
		APIKey:    apiKey,
		Salt:      salt,
		Signature: base64.StdEncoding.EncodeToString(sum[:]),
	}
}
