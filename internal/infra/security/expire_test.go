package security

import (
	"errors"
	"testing"
	"time"
)

func TestParseExpirationUnits(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"1s", time.Second},
		{"45s", 45 * time.Second},
		{"1m", time.Minute},
		{"15m", 15 * time.Minute},
		{"1h", time.Hour},
		{"24h", 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"0s", 0},
	}

	for _, tc := range cases {
		got, err := ParseExpiration(tc.input)
		if err != nil {
			t.Fatalf("ParseExpiration(%q) returned error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseExpiration(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseExpirationRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"10",
		"10x",
		"abc",
		"h10",
		"-5m",
		"1.5h",
		"10 m",
		"10mm",
		"d",
	}

	for _, input := range inputs {
		if _, err := ParseExpiration(input); !errors.Is(err, ErrInvalidExpiration) {
			t.Fatalf("ParseExpiration(%q) error = %v, want ErrInvalidExpiration", input, err)
		}
	}
}
