// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/quickstore/internal/domain/order"
)

type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderConfirmation sends the order confirmation email. intro is the
// lead sentence of the body; callers pass either assistant-drafted copy or
// the static fallback.
func (s *Service) SendOrderConfirmation(to string, placed order.OrderPlaced, intro string) error {
	subject := fmt.Sprintf("Order confirmed: %s", placed.OrderID)
	body := BuildOrderConfirmationBody(placed, intro)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
