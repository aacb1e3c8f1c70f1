package notifications

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"log"
	"sort"
	"strings"
)

// LogSender only writes notifications to the log. Used for local runs.
type LogSender struct{}

var _ interfaces.INotificationSender = LogSender{}

func (LogSender) Send(_ context.Context, kind entities.NotificationKind, recipient string, payload map[string]any) entities.SendResult {
	if strings.TrimSpace(recipient) == "" {
		return entities.SendResult{Error: "recipient is required"}
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	log.Printf("[notifications][log] kind=%s recipient=%s fields=%s", kind, recipient, strings.Join(keys, ","))
	return entities.SendResult{Success: true}
}
