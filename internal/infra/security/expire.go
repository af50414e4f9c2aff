package security

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidExpiration indicates a malformed duration shorthand. It surfaces
// as a configuration failure at token-issuance time.
var ErrInvalidExpiration = errors.New("security: invalid expiration format")

var expirationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseExpiration converts a shorthand duration string ("15m", "24h", "7d")
// into a duration. The amount must be a plain non-negative integer and the
// unit one of s, m, h, or d; anything else fails with ErrInvalidExpiration.
func ParseExpiration(value string) (time.Duration, error) {
	match := expirationPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpiration, value)
	}

	amount, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidExpiration, value)
	}

	return time.Duration(amount*unitSeconds[match[2]]) * time.Second, nil
}
