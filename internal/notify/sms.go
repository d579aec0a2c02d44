package notify

import (
	"context"

	"cardkeeper/internal/logger"
)

// LogSMSSender logs outbound SMS instead of delivering them.
// TODO: replace with a Twilio-backed sender once an account is provisioned.
type LogSMSSender struct{}

// NewLogSMSSender creates the logging SMS sender.
func NewLogSMSSender() *LogSMSSender {
	return &LogSMSSender{}
}

// SendSMS logs the message and reports success.
func (s *LogSMSSender) SendSMS(ctx context.Context, to, message string) error {
	logger.Get().Infow("sms (not delivered, no provider configured)", "to", to, "message", message)
	return nil
}
