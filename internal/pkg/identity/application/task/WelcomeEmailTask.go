package task

import (
	"context"
	"encoding/json"
	"log"
	"time"

	qport "github.com/Dhruvraj1821/chatify/internal/infrastructure/queue/port"
	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
)

// WelcomeEmailTaskType is the queue task name for the post-signup welcome email.
const WelcomeEmailTaskType = "identity:welcome_email"

// WelcomeEmailTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type WelcomeEmailTaskPayload struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Mailer sends the welcome email. The default implementation only logs; a
// real provider can be plugged in without touching the task wiring.
type Mailer interface {
	SendWelcome(ctx context.Context, email, fullName string) error
}

// LogMailer is the no-provider fallback used in development.
type LogMailer struct{}

func (LogMailer) SendWelcome(ctx context.Context, email, fullName string) error {
	log.Printf("welcome email to %s <%s>", fullName, email)
	return nil
}

// QueueNotifier enqueues the welcome task after signup. Implements the signup
// use case's WelcomeNotifier port.
type QueueNotifier struct {
	Client qport.Client
}

func NewQueueNotifier(client qport.Client) *QueueNotifier {
	return &QueueNotifier{Client: client}
}

func (n *QueueNotifier) NotifySignup(ctx context.Context, u identity.User) error {
	if n == nil || n.Client == nil {
		return nil
	}
	payload := WelcomeEmailTaskPayload{UserID: u.ID, Email: u.Email, FullName: u.FullName}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	opts := qport.EnqueueOption{Queue: "identity", MaxRetry: 5, UniqueTTL: 24 * time.Hour}
	_, err = n.Client.Enqueue(ctx, qport.Task{Type: WelcomeEmailTaskType, Payload: b}, opts)
	return err
}

// RegisterWelcomeEmailTask binds the task handler to the provided server.
func RegisterWelcomeEmailTask(srv qport.Server, mailer Mailer) {
	if mailer == nil {
		mailer = LogMailer{}
	}
	srv.Register(WelcomeEmailTaskType, func(ctx context.Context, t qport.Task) error {
		var p WelcomeEmailTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return mailer.SendWelcome(ctx, p.Email, p.FullName)
	})
}
