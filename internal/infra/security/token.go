package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates signed, time-bounded tokens with a
// process-wide secret injected at construction. Verification is pure and
// side-effect-free; validity is determined entirely by signature and the
// expiry embedded at issuance.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService constructs a token service around the signing secret.
func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret, now: time.Now}
}

// Generate signs the payload claims into an HS256 token expiring after the
// shorthand duration. A malformed shorthand fails with ErrInvalidExpiration.
func (s *TokenService) Generate(payload map[string]any, expiresIn string) (string, error) {
	ttl, err := ParseExpiration(expiresIn)
	if err != nil {
		return "", err
	}
	return s.sign(payload, ttl)
}

// GenerateWithTTL signs the payload claims into a token expiring after the
// given number of seconds.
func (s *TokenService) GenerateWithTTL(payload map[string]any, seconds int64) (string, error) {
	return s.sign(payload, time.Duration(seconds)*time.Second)
}

func (s *TokenService) sign(payload map[string]any, ttl time.Duration) (string, error) {
	now := s.now().UTC()

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify validates signature and expiry and returns the decoded claims. Any
// failure (tampering, signature mismatch, expiry) yields (nil, false); the
// specific reason is deliberately not surfaced at this layer.
func (s *TokenService) Verify(token string) (map[string]any, bool) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || parsed == nil || !parsed.Valid {
		return nil, false
	}

	return claims, true
}

// WithClock overrides the internal clock, used in tests.
func (s *TokenService) WithClock(clock func() time.Time) *TokenService {
	if clock != nil {
		s.now = clock
	}
	return s
}
