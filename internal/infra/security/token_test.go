package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService([]byte("unit-test-secret"))

	payload := map[string]any{
		"id":    "user-1",
		"role":  "role-1",
		"store": "store-1",
	}

	token, err := svc.Generate(payload, "1h")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, ok := svc.Verify(token)
	if !ok {
		t.Fatal("Verify rejected a freshly issued token")
	}

	for key, want := range payload {
		if claims[key] != want {
			t.Fatalf("claim %q = %v, want %v", key, claims[key], want)
		}
	}
	if _, exists := claims["exp"]; !exists {
		t.Fatal("expected exp claim to be embedded")
	}
}

func TestGenerateRejectsMalformedExpiration(t *testing.T) {
	svc := NewTokenService([]byte("unit-test-secret"))

	if _, err := svc.Generate(map[string]any{"id": "u"}, "10x"); !errors.Is(err, ErrInvalidExpiration) {
		t.Fatalf("Generate error = %v, want ErrInvalidExpiration", err)
	}
}

func TestGenerateWithTTLEmbedsExactExpiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService([]byte("unit-test-secret")).WithClock(func() time.Time { return issued })

	token, err := svc.GenerateWithTTL(map[string]any{"id": "u"}, 90)
	if err != nil {
		t.Fatalf("GenerateWithTTL returned error: %v", err)
	}

	claims, ok := svc.Verify(token)
	if !ok {
		t.Fatal("Verify rejected the token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp claim has unexpected type %T", claims["exp"])
	}
	if int64(exp) != issued.Add(90*time.Second).Unix() {
		t.Fatalf("exp = %d, want %d", int64(exp), issued.Add(90*time.Second).Unix())
	}
}

func TestVerifyExpiredTokenReturnsSentinel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService([]byte("unit-test-secret")).WithClock(func() time.Time { return now })

	token, err := svc.Generate(map[string]any{"id": "u"}, "1m")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// Advance the clock past the embedded expiry.
	now = now.Add(2 * time.Minute)

	claims, ok := svc.Verify(token)
	if ok {
		t.Fatal("Verify accepted an expired token")
	}
	if claims != nil {
		t.Fatalf("expected nil claims for expired token, got %v", claims)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := NewTokenService([]byte("unit-test-secret"))

	token, err := svc.Generate(map[string]any{"id": "u"}, "1h")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, ok := svc.Verify(tampered); ok {
		t.Fatal("Verify accepted a tampered token")
	}

	other := NewTokenService([]byte("another-secret"))
	if _, ok := other.Verify(token); ok {
		t.Fatal("Verify accepted a token signed with a different secret")
	}
}

func TestTokensDifferAcrossInstants(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService([]byte("unit-test-secret")).WithClock(func() time.Time { return now })

	payload := map[string]any{"id": "u"}
	first, err := svc.Generate(payload, "1h")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	now = now.Add(time.Second)
	second, err := svc.Generate(payload, "1h")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if first == second {
		t.Fatal("expected signatures to differ across issue instants")
	}
}
