package trips

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

const slugSuffixBytes = 3

// Slugify turns a trip name into a URL display identifier with a short
// random suffix so two trips named "Summer in Rome" never collide.
func Slugify(name string) (string, error) {
	base := slugBase(name)
	suffix := make([]byte, slugSuffixBytes)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return base + "-" + hex.EncodeToString(suffix), nil
}

func slugBase(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "trip"
	}
	if len(slug) > 48 {
		slug = strings.Trim(slug[:48], "-")
	}
	return slug
}
