// Package owners validates CODEOWNERS owner tokens structurally. An owner
// is one of @user, @org/team, or an email address; whether the account
// actually exists is a separate concern (see internal/github).
package owners

import (
	"fmt"
	"regexp"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindUser
	KindTeam
	KindEmail
)

// GitHub logins allow letters, digits and hyphens only.
var (
	userRE  = regexp.MustCompile(`^@[a-zA-Z0-9-]+$`)
	teamRE  = regexp.MustCompile(`^@[a-zA-Z0-9-]+/[a-zA-Z0-9-]+$`)
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Classify reports the structural kind of an owner token.
func Classify(owner string) Kind {
	switch {
	case teamRE.MatchString(owner):
		return KindTeam
	case userRE.MatchString(owner):
		return KindUser
	case emailRE.MatchString(owner):
		return KindEmail
	default:
		return KindInvalid
	}
}

// Validate returns an error describing the expected owner formats when the
// token matches none of them.
func Validate(owner string) error {
	if Classify(owner) == KindInvalid {
		return fmt.Errorf("invalid owner format %q: expected @user, @org/team, or email@domain.com", owner)
	}
	return nil
}
