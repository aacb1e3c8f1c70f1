package entities

// NotificationKind selects the message template rendered by the mailer.
type NotificationKind string

const (
	NotificationQuoteReady          NotificationKind = "quote_ready"
	NotificationQuoteSigned         NotificationKind = "quote_signed"
	NotificationQuoteSignedOperator NotificationKind = "quote_signed_operator"
)

// SendResult is what a sender reports back. Senders never return errors;
// failures travel in Error so the orchestrator can log them.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
