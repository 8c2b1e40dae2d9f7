package email

import (
	"context"
	"fmt"
)

// MessageNotification describes a stored contact message.
type MessageNotification struct {
	ID      int64
	Name    string
	Email   string
	Message string
}

// RegistrationNotification describes a stored registration.
type RegistrationNotification struct {
	ID          int64
	Name        string
	Email       string
	Institution string
}

// SendMessageNotification tells recipient about a new contact message.
// Replies go to the sender.
func (c *Client) SendMessageNotification(ctx context.Context, recipient string, n MessageNotification) error {
	return c.SendEmail(ctx, recipient, n.Email,
		fmt.Sprintf("Новое сообщение от %s", n.Name),
		TemplateMessage,
		map[string]string{
			"ID":      fmt.Sprint(n.ID),
			"Name":    n.Name,
			"Email":   n.Email,
			"Message": n.Message,
		},
	)
}

// SendRegistrationNotification tells recipient about a new registration.
func (c *Client) SendRegistrationNotification(ctx context.Context, recipient string, n RegistrationNotification) error {
	return c.SendEmail(ctx, recipient, n.Email,
		fmt.Sprintf("Новая регистрация: %s", n.Name),
		TemplateRegistration,
		map[string]string{
			"ID":          fmt.Sprint(n.ID),
			"Name":        n.Name,
			"Email":       n.Email,
			"Institution": n.Institution,
		},
	)
}
