package interfaces

import (
	"client_portal/internal/domain/entities"
	"context"
)

// INotificationSender dispatches templated notifications (email).
// Send never fails loudly: the outcome is always in the returned SendResult.
type INotificationSender interface {
	Send(ctx context.Context, kind entities.NotificationKind, recipient string, payload map[string]any) entities.SendResult
}
