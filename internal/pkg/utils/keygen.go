package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

// SlugBytes is the number of random bytes behind every slug.
const SlugBytes = 6

var slugPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

// SlugFunc produces a new public project slug.
type SlugFunc func() (string, error)

// GenerateSlug returns SlugBytes of crypto/rand output as lowercase hex.
// A failing random source is reported, never replaced by a weaker one.
func GenerateSlug() (string, error) {
	b := make([]byte, SlugBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsSlug reports whether s has the shape produced by GenerateSlug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
