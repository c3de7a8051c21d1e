package mailer

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean text untouched", "Team Rocket", "Team Rocket"},
		{"ampersand", "R&D", "R&amp;D"},
		{"angle brackets", "<script>", "&lt;script&gt;"},
		{"double quote", `say "hi"`, "say &quot;hi&quot;"},
		{"single quote", "it's", "it&#039;s"},
		{"all five", `&<>"'`, "&amp;&lt;&gt;&quot;&#039;"},
		{"mixed team name", "O'Brien & <Co>", "O&#039;Brien &amp; &lt;Co&gt;"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeHTML(tt.in); got != tt.want {
				t.Fatalf("EscapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Escaping already-escaped text encodes the entity ampersands again; callers
// escape exactly once at the template boundary.
func TestEscapeHTMLDoubleEscape(t *testing.T) {
	if got := EscapeHTML("&amp;"); got != "&amp;amp;" {
		t.Fatalf("EscapeHTML(\"&amp;\") = %q, want %q", got, "&amp;amp;")
	}
}
