package mailer

import (
	"fmt"

	"github.com/forgehack/platform/internal/mailer/domain"
)

// Templates assembles the transactional message bodies. Every user-supplied
// field is passed through EscapeHTML here, exactly once; the layout strings
// below never sanitize on their own.
type Templates struct {
	from             string
	otpExpiryMinutes int
}

func NewTemplates(from string, otpExpiryMinutes int) *Templates {
	if otpExpiryMinutes <= 0 {
		otpExpiryMinutes = 10
	}
	return &Templates{from: from, otpExpiryMinutes: otpExpiryMinutes}
}

func (t *Templates) OTP(to, code string) *domain.EmailMessage {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Your verification code</h2>
<p style="font-size:28px;letter-spacing:4px"><strong>%s</strong></p>
<p>This code expires in %d minutes. If you did not request it, ignore this email.</p>
</div>`, EscapeHTML(code), t.otpExpiryMinutes)

	return &domain.EmailMessage{
		To:      to,
		From:    t.from,
		Subject: "Your ForgeHack verification code",
		Body:    body,
		Type:    domain.TypeOTP,
	}
}

func (t *Templates) RegistrationConfirmation(to, teamName, track string) *domain.EmailMessage {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Registration received</h2>
<p>Team <strong>%s</strong> is registered for the <strong>%s</strong> track.</p>
<p>We will email you again once the organizers have reviewed your application.</p>
</div>`, EscapeHTML(teamName), EscapeHTML(track))

	return &domain.EmailMessage{
		To:      to,
		From:    t.from,
		Subject: fmt.Sprintf("Registration received for %s", teamName),
		Body:    body,
		Type:    domain.TypeConfirmation,
	}
}

func (t *Templates) MemberNotification(to, memberName, teamName string) *domain.EmailMessage {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>You have been added to a team</h2>
<p>Hi %s, you were listed as a member of team <strong>%s</strong> for ForgeHack.</p>
<p>No action is needed; your team captain will receive all status updates.</p>
</div>`, EscapeHTML(memberName), EscapeHTML(teamName))

	return &domain.EmailMessage{
		To:      to,
		From:    t.from,
		Subject: fmt.Sprintf("You were added to team %s", teamName),
		Body:    body,
		Type:    domain.TypeMemberNotification,
	}
}

func (t *Templates) StatusUpdate(to, teamName, status, note string) *domain.EmailMessage {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Application update</h2>
<p>Team <strong>%s</strong> status: <strong>%s</strong>.</p>`, EscapeHTML(teamName), EscapeHTML(status))
	if note != "" {
		body += fmt.Sprintf("\n<p>Organizer note: %s</p>", EscapeHTML(note))
	}
	body += "\n</div>"

	return &domain.EmailMessage{
		To:      to,
		From:    t.from,
		Subject: fmt.Sprintf("Your ForgeHack application is %s", status),
		Body:    body,
		Type:    domain.TypeStatusUpdate,
	}
}

func (t *Templates) JudgeInvite(to, judgeName string) *domain.EmailMessage {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Judging invitation</h2>
<p>Hi %s, you have been invited to judge ForgeHack submissions.</p>
</div>`, EscapeHTML(judgeName))

	return &domain.EmailMessage{
		To:      to,
		From:    t.from,
		Subject: "ForgeHack judging invitation",
		Body:    body,
		Type:    domain.TypeJudgeInvite,
	}
}
