// Package notify holds the outbound delivery collaborators: email via the
// Resend HTTP API and SMS. Delivery is fire-and-forget from the scheduler's
// perspective; failures are logged here and never abort a reminder sweep.
package notify

import "context"

// Mailer sends one email. Implementations must be safe for concurrent use.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// SMSSender sends one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}
