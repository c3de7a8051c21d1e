package mailer

import (
	"regexp"
	"strings"
)

// Validation is the outcome of an address check.
type Validation struct {
	Valid  bool
	Reason string
}

const (
	ReasonInvalidFormat    = "Invalid email format"
	ReasonDisposableDomain = "Disposable email addresses are not allowed"
)

var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains is the fixed deny list of throwaway-mail providers.
// Matching is case-insensitive on the address domain.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"tempmail.com":      {},
	"temp-mail.org":     {},
	"throwaway.email":   {},
	"yopmail.com":       {},
	"trashmail.com":     {},
	"sharklasers.com":   {},
	"getnada.com":       {},
	"fakeinbox.com":     {},
	"maildrop.cc":       {},
	"dispostable.com":   {},
	"mintemail.com":     {},
	"mohmal.com":        {},
}

// ValidateAddress checks format and the disposable-domain deny list. It is a
// pure function: no network calls, no state.
func ValidateAddress(addr string) Validation {
	if !addressPattern.MatchString(addr) {
		return Validation{Reason: ReasonInvalidFormat}
	}

	at := strings.LastIndex(addr, "@")
	domain := strings.ToLower(addr[at+1:])
	if _, denied := disposableDomains[domain]; denied {
		return Validation{Reason: ReasonDisposableDomain}
	}

	return Validation{Valid: true}
}
