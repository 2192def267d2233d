package email

import (
	"context"
	"time"
)

// DigestLead is one row of the follow-up digest.
type DigestLead struct {
	Name    string
	Phone   string
	Status  string
	DueDate string
}

// FollowUpDigest lists the leads due for follow-up on AsOf.
type FollowUpDigest struct {
	AsOf  time.Time
	Leads []DigestLead
}

type Sender interface {
	SendFollowUpDigest(ctx context.Context, toEmail string, digest FollowUpDigest) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendFollowUpDigest(ctx context.Context, toEmail string, digest FollowUpDigest) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
