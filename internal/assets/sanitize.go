package assets

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// SecureFilename reduces an untrusted filename to a flat, ASCII-only name made of
// letters, digits, dots, dashes and underscores. It may return "".
func SecureFilename(name string) string {
	folded := make([]rune, 0, len(name))
	for _, r := range norm.NFKD.String(name) {
		if r <= unicode.MaxASCII {
			folded = append(folded, r)
		}
	}
	s := strings.NewReplacer("/", " ", `\`, " ").Replace(string(folded))
	s = strings.Join(strings.Fields(s), "_")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
	return strings.Trim(s, "._")
}

// Allowed reports whether name carries an accepted image extension.
func Allowed(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

// PhysicalKey is the staging key of name within session id. The id never contains '_',
// so the first underscore always ends the session prefix.
func PhysicalKey(sessionID, name string) string {
	return sessionPrefix(sessionID) + name
}

func sessionPrefix(sessionID string) string { return sessionID + "_" }
