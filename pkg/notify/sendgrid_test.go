package notify

import (
	"context"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	status int
	sent   []*mail.SGMailV3
}

func (f *fakeSender) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	return &rest.Response{StatusCode: f.status, Body: "rejected"}, nil
}

func TestSendGrid_OrderPlaced(t *testing.T) {
	t.Parallel()

	fs := &fakeSender{status: 202}
	s := &SendGrid{client: fs, from: mail.NewEmail("Storefront", "shop@example.com"), to: mail.NewEmail("Orders", "ops@example.com")}

	err := s.OrderPlaced(context.Background(), OrderPlaced{
		OrderID:       "o-1",
		UserID:        "u-1",
		Total:         "180.00",
		DiscountCode:  "SAVE10",
		PaymentMethod: "cod",
		Lines:         []string{"SHIRT-M x2 @ 100"},
	})
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)

	m := fs.sent[0]
	assert.Equal(t, "New order o-1", m.Subject)
	assert.Equal(t, "ops@example.com", m.Personalizations[0].To[0].Address)
	assert.Contains(t, m.Content[0].Value, "Discount: SAVE10")
	assert.Contains(t, m.Content[0].Value, "SHIRT-M x2 @ 100")
}

func TestSendGrid_RejectedStatus(t *testing.T) {
	t.Parallel()

	s := &SendGrid{client: &fakeSender{status: 401}, from: mail.NewEmail("", "a@b.c"), to: mail.NewEmail("", "d@e.f")}
	err := s.OrderPlaced(context.Background(), OrderPlaced{OrderID: "o-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
