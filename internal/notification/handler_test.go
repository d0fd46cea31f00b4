package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quickstore/internal/domain/order"
)

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to     string
	placed order.OrderPlaced
	intro  string
}

func (m *fakeMailer) SendOrderConfirmation(to string, placed order.OrderPlaced, intro string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, placed: placed, intro: intro})
	return nil
}

type fakeDrafter struct {
	intro string
}

func (d *fakeDrafter) DraftOrderConfirmation(ctx context.Context, placed order.OrderPlaced) string {
	return d.intro
}

func placedEvent(t *testing.T, placed order.OrderPlaced) []byte {
	t.Helper()
	data, err := json.Marshal(placed)
	require.NoError(t, err)
	raw, err := json.Marshal(order.Event{
		ID:      "evt-1",
		Type:    order.EventOrderPlaced,
		OrderID: placed.OrderID,
		Data:    data,
	})
	require.NoError(t, err)
	return raw
}

func TestHandler_SendsConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandler(mailer, nil)

	value := placedEvent(t, order.OrderPlaced{
		OrderID:       "ORD-1",
		CustomerName:  "Sam",
		CustomerEmail: "sam@example.com",
		Total:         6999,
	})

	require.NoError(t, h.HandleEvent(context.Background(), []byte("ORD-1"), value))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sam@example.com", mailer.sent[0].to)
	assert.Equal(t, "ORD-1", mailer.sent[0].placed.OrderID)
	assert.Equal(t, "Thank you for your order, Sam! Your order ORD-1 is being processed.", mailer.sent[0].intro)
}

func TestHandler_UsesDrafterIntro(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandler(mailer, &fakeDrafter{intro: "A custom greeting."})

	value := placedEvent(t, order.OrderPlaced{
		OrderID:       "ORD-1",
		CustomerEmail: "sam@example.com",
	})

	require.NoError(t, h.HandleEvent(context.Background(), nil, value))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "A custom greeting.", mailer.sent[0].intro)
}

func TestHandler_SkipsMissingEmail(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandler(mailer, nil)

	value := placedEvent(t, order.OrderPlaced{OrderID: "ORD-1"})

	// No address means skip, not retry.
	assert.NoError(t, h.HandleEvent(context.Background(), nil, value))
	assert.Empty(t, mailer.sent)
}

func TestHandler_IgnoresOtherEventTypes(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandler(mailer, nil)

	raw, err := json.Marshal(order.Event{
		ID:      "evt-2",
		Type:    order.EventOrderStatusChanged,
		OrderID: "ORD-1",
		Data:    json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	assert.NoError(t, h.HandleEvent(context.Background(), nil, raw))
	assert.Empty(t, mailer.sent)
}

func TestHandler_PropagatesMailerError(t *testing.T) {
	mailErr := errors.New("smtp down")
	h := NewHandler(&fakeMailer{err: mailErr}, nil)

	value := placedEvent(t, order.OrderPlaced{
		OrderID:       "ORD-1",
		CustomerEmail: "sam@example.com",
	})

	assert.ErrorIs(t, h.HandleEvent(context.Background(), nil, value), mailErr)
}

func TestHandler_MalformedEvent(t *testing.T) {
	h := NewHandler(&fakeMailer{}, nil)

	assert.Error(t, h.HandleEvent(context.Background(), nil, []byte("not json")))
}
