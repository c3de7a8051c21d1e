package mailer

import "testing"

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		valid  bool
		reason string
	}{
		{"plain address", "dev@example.com", true, ""},
		{"subdomain", "dev@mail.example.co.uk", true, ""},
		{"plus tag", "dev+forgehack@example.com", true, ""},
		{"dots and digits", "first.last99@example.io", true, ""},
		{"empty", "", false, ReasonInvalidFormat},
		{"missing at", "example.com", false, ReasonInvalidFormat},
		{"missing domain", "dev@", false, ReasonInvalidFormat},
		{"missing tld", "dev@example", false, ReasonInvalidFormat},
		{"single letter tld", "dev@example.c", false, ReasonInvalidFormat},
		{"spaces", "dev @example.com", false, ReasonInvalidFormat},
		{"mailinator", "dev@mailinator.com", false, ReasonDisposableDomain},
		{"yopmail", "dev@yopmail.com", false, ReasonDisposableDomain},
		{"deny list is case insensitive", "dev@MAILINATOR.COM", false, ReasonDisposableDomain},
		{"temp-mail.org", "dev@temp-mail.org", false, ReasonDisposableDomain},
		{"subdomain of deny-listed domain passes", "dev@mail.mailinator.net", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateAddress(tt.addr)
			if v.Valid != tt.valid {
				t.Fatalf("ValidateAddress(%q).Valid = %v, want %v", tt.addr, v.Valid, tt.valid)
			}
			if v.Reason != tt.reason {
				t.Fatalf("ValidateAddress(%q).Reason = %q, want %q", tt.addr, v.Reason, tt.reason)
			}
		})
	}
}
