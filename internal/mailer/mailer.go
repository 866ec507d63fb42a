package mailer

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/events"
	"github.com/nvalente/studiocms/internal/payment"
)

// Settings provides SMTP configuration from the runtime settings table
type Settings interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
}

// Notifier sends best effort email notifications for bus events.
// Delivery failure is logged and never propagates into the request
// that triggered the event.
type Notifier struct {
	settings Settings
}

func NewNotifier(settings Settings) *Notifier {
	return &Notifier{settings: settings}
}

// Subscribe attaches the notifier to the application event bus
func (n *Notifier) Subscribe(bus EventBus.Bus) error {
	if err := bus.SubscribeAsync(events.TopicOrderCompleted, n.onOrderCompleted, false); err != nil {
		return err
	}
	return bus.SubscribeAsync(events.TopicContactReceived, n.onContactReceived, false)
}

func (n *Notifier) onOrderCompleted(order *domain.Order) {
	subject := fmt.Sprintf("Order completed: %s", order.ItemTitle)
	body := fmt.Sprintf("Order %d completed.\n\nItem: %s\nAmount: %.2f %s\nBuyer: %s <%s>\nSession: %s\n",
		order.ID, order.ItemTitle,
		payment.CentsToUnits(order.AmountPaid), order.Currency,
		order.UserName, order.UserEmail, order.SessionID)
	n.send(subject, body)
}

func (n *Notifier) onContactReceived(sub *domain.ContactSubmission) {
	subject := fmt.Sprintf("New contact submission from %s", sub.Name)
	if sub.CompanySlug != "" {
		subject = fmt.Sprintf("[%s] %s", sub.CompanySlug, subject)
	}
	body := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s\n", sub.Name, sub.Email, sub.Subject, sub.Message)
	n.send(subject, body)
}

func (n *Notifier) send(subject, body string) {
	host := n.settings.GetSettingsStringValue("smtp", "host")
	if host == "" {
		// SMTP not configured, notifications are optional
		return
	}
	port := int(n.settings.GetSettingsInt64Value("smtp", "port"))
	if port == 0 {
		port = 587
	}
	username := n.settings.GetSettingsStringValue("smtp", "username")
	password := n.settings.GetSettingsStringValue("smtp", "password")
	from := n.settings.GetSettingsStringValue("smtp", "from")
	to := n.settings.GetSettingsStringValue("smtp", "notify_to")
	if from == "" || to == "" {
		zap.L().Warn("smtp from/notify_to not configured, skipping notification")
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("notification mail send failed", zap.String("subject", subject), zap.Error(err))
		return
	}
	zap.L().Info("notification mail sent", zap.String("subject", subject))
}
