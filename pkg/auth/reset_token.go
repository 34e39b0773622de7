package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// resetTokenBytes is the raw entropy of a reset token: 32 bytes, 64 hex chars.
const resetTokenBytes = 32

// GenerateResetToken returns a cryptographically random plaintext token.
// The plaintext goes to the user's mailbox; only its hash is ever stored.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cannot generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken computes the deterministic SHA-256 hex digest of a token.
// Unlike password hashing this is deliberately unsalted: the store looks
// the record up by exact hash equality, so the same plaintext must always
// produce the same digest. A database read alone still cannot recover a
// redeemable plaintext.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ResetCodec packs an email and plaintext reset token into one signed,
// URL-safe string suitable for an email link, and unpacks it again.
type ResetCodec struct {
	secretKey []byte
	lifespan  time.Duration
}

type resetClaims struct {
	Email string `json:"email"`
	Token string `json:"token"`
	jwt.RegisteredClaims
}

func NewResetCodec(secretKey string, lifespan time.Duration) *ResetCodec {
	return &ResetCodec{
		secretKey: []byte(secretKey),
		lifespan:  lifespan,
	}
}

// Serialize packs email + token into a compact signed string.
func (c *ResetCodec) Serialize(email, token string) (string, error) {
	claims := resetClaims{
		Email: email,
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.lifespan)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "geoatlas-reset",
		},
	}

	signedString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign reset string: %w", err)
	}
	return signedString, nil
}

// Deserialize unpacks a reset string produced by Serialize. Any tampered,
// malformed, or mis-signed input fails.
func (c *ResetCodec) Deserialize(resetString string) (email, token string, err error) {
	parsed, err := jwt.ParseWithClaims(resetString, &resetClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature algorithm: %v", t.Header["alg"])
		}
		return c.secretKey, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("malformed reset string: %w", err)
	}

	claims, ok := parsed.Claims.(*resetClaims)
	if !ok || !parsed.Valid || claims.Email == "" || claims.Token == "" {
		return "", "", fmt.Errorf("malformed reset string: missing claims")
	}
	return claims.Email, claims.Token, nil
}
