package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"unicode"
)

const slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateInviteSlug builds a URL-safe invite slug from a community
// name, e.g. "Riverbank" -> "riverbank-x7k2". The random suffix keeps
// slugs distinct between communities with similar names; callers must
// still collision-check against the store.
func GenerateInviteSlug(name string) (string, error) {
	suffix, err := randomSuffix(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate slug suffix: %w", err)
	}

	base := Slugify(name)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// Slugify lowercases the name and collapses every non-alphanumeric
// run into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func randomSuffix(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	for i, b := range bytes {
		bytes[i] = slugSuffixAlphabet[int(b)%len(slugSuffixAlphabet)]
	}
	return string(bytes), nil
}
