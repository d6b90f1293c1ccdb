package controller

import (
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
	"github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/usecase"
)

// RealtimeNotifier adapts the realtime message router to the send use case's
// delivery port.
type RealtimeNotifier struct {
	router *realtime.MessageRouter
}

func NewRealtimeNotifier(router *realtime.MessageRouter) *RealtimeNotifier {
	return &RealtimeNotifier{router: router}
}

var _ usecase.DeliveryNotifier = (*RealtimeNotifier)(nil)

func (n *RealtimeNotifier) MessagePersisted(m messaging.Message) {
	if n == nil || n.router == nil {
		return
	}
	n.router.Deliver(toPayload(m))
}
