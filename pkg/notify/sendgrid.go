package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type OrderPlaced struct {
	OrderID       string
	UserID        string
	Total         string
	DiscountCode  string
	PaymentMethod string
	Lines         []string
}

type Notifier interface {
	OrderPlaced(ctx context.Context, n OrderPlaced) error
}

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGrid mails order notifications to a fixed staff address.
type SendGrid struct {
	client sender
	from   *mail.Email
	to     *mail.Email
}

func NewSendGrid(apiKey, from, to string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Storefront", from),
		to:     mail.NewEmail("Orders", to),
	}
}

func buildOrderMail(from, to *mail.Email, n OrderPlaced) *mail.SGMailV3 {
	subject := fmt.Sprintf("New order %s", n.OrderID)

	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\nCustomer: %s\nTotal: %s\nPayment: %s\n", n.OrderID, n.UserID, n.Total, n.PaymentMethod)
	if n.DiscountCode != "" {
		fmt.Fprintf(&b, "Discount: %s\n", n.DiscountCode)
	}
	for _, line := range n.Lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	plain := b.String()
	html := "<pre>" + plain + "</pre>"

	return mail.NewSingleEmail(from, subject, to, plain, html)
}

func (s *SendGrid) OrderPlaced(ctx context.Context, n OrderPlaced) error {
	resp, err := s.client.SendWithContext(ctx, buildOrderMail(s.from, s.to, n))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type Nop struct{}

func (Nop) OrderPlaced(context.Context, OrderPlaced) error { return nil }
