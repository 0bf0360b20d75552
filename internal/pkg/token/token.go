// Package token generates opaque API access keys.
package token

import (
	"crypto/rand"
	"fmt"
)

const (
	// Length is the fixed length of every access key.
	Length = 20

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Generate returns a random key of Length characters drawn uniformly from
// the 62-symbol alphanumeric alphabet.
func Generate() (string, error) {
	// 248 is the largest multiple of 62 below 256; bytes at or above it are
	// rejected to keep the distribution uniform.
	const limit = 248

	key := make([]byte, 0, Length)
	buf := make([]byte, Length)

	for len(key) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			key = append(key, alphabet[int(b)%len(alphabet)])
			if len(key) == Length {
				break
			}
		}
	}

	return string(key), nil
}

// Valid reports whether s has the shape of an access key.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
