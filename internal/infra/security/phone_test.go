package security

import (
	"errors"
	"testing"
)

func TestNormalizePhoneProducesE164(t *testing.T) {
	cases := []struct {
		raw    string
		region string
		want   string
	}{
		{"+15551234567", "", "+15551234567"},
		{"+1 555 123 4567", "", "+15551234567"},
		{"(555) 123-4567", "US", "+15551234567"},
		{"06 12 34 56 78", "FR", "+33612345678"},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.raw, tc.region)
		if err != nil {
			t.Fatalf("NormalizePhone(%q, %q) returned error: %v", tc.raw, tc.region, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q, %q) = %q, want %q", tc.raw, tc.region, got, tc.want)
		}
	}
}

func TestNormalizePhoneRejectsInvalidInput(t *testing.T) {
	for _, raw := range []string{"", "not-a-number", "+1555"} {
		if _, err := NormalizePhone(raw, "US"); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("NormalizePhone(%q) error = %v, want ErrInvalidPhone", raw, err)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !VerifyPassword("secret1", hash) {
		t.Fatal("VerifyPassword rejected the original password")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatal("VerifyPassword accepted a wrong password")
	}
}
