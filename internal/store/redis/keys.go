package redis

import "strings"

const (
	// KeyPrefixSeenURL marks normalized URLs that were recently accepted.
	KeyPrefixSeenURL = "submitd:seen:url:"
	// KeyPrefixSeenIdent marks recently accepted name+email pairs.
	KeyPrefixSeenIdent = "submitd:seen:ident:"
	// KeyAccepted counts accepted submissions across restarts.
	KeyAccepted = "submitd:stats:accepted"
)

// SeenURLKey returns the key for a normalized URL.
func SeenURLKey(url string) string {
	return KeyPrefixSeenURL + strings.ToLower(url)
}

// SeenIdentKey returns the key for a name+email identity pair.
func SeenIdentKey(name, email string) string {
	return KeyPrefixSeenIdent + strings.ToLower(name) + "|" + email
}
