package domain

import (
	"fmt"
	"time"
)

// EmailType is the closed set of transactional message categories.
type EmailType string

const (
	TypeOTP                EmailType = "OTP"
	TypeConfirmation       EmailType = "CONFIRMATION"
	TypeMemberNotification EmailType = "MEMBER_NOTIFICATION"
	TypeStatusUpdate       EmailType = "STATUS_UPDATE"
	TypeJudgeInvite        EmailType = "JUDGE_INVITE"
)

// EmailMessage is a fully assembled outbound message. It is immutable once
// constructed; the dispatcher never mutates it.
type EmailMessage struct {
	To      string
	From    string
	Subject string
	Body    string
	Type    EmailType
}

// SendResult is the caller-visible outcome for one EmailMessage. Batch
// results are always index-aligned with the input slice.
type SendResult struct {
	Success   bool
	MessageID string
	Error     string
}

// AttemptStatus is the lifecycle state of a logged delivery attempt.
type AttemptStatus string

const (
	AttemptPending AttemptStatus = "PENDING"
	AttemptSent    AttemptStatus = "SENT"
	AttemptFailed  AttemptStatus = "FAILED"
)

// AttemptRecord is the durable audit trail entry for one logical send
// operation. Attempts holds the final attempt count, not a per-retry
// increment; a validation failure is recorded with Attempts == 0.
type AttemptRecord struct {
	ID          string        `gorm:"primaryKey;size:32"`
	To          string        `gorm:"column:to_address;size:320;index"`
	From        string        `gorm:"column:from_address;size:320"`
	Subject     string        `gorm:"size:998"`
	Type        EmailType     `gorm:"size:32"`
	Status      AttemptStatus `gorm:"size:16;index"`
	Provider    string        `gorm:"size:32"`
	MessageID   string        `gorm:"size:64;index"`
	Error       string        `gorm:"type:text"`
	Attempts    int
	LastAttempt time.Time
	SentAt      *time.Time
	CreatedAt   time.Time
}

func (AttemptRecord) TableName() string {
	return "email_attempts"
}

// ProviderError is the normalized provider failure. StatusCode == 0 means
// the call never produced an HTTP response (network-level failure).
type ProviderError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d): %s", e.Name, e.StatusCode, e.Message)
}
