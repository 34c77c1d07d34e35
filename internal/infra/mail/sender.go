package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templateFS, "templates/new_lead.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP transport.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func (s *EmailSender) SendNewLead(to string, data NewLeadEmailData) error {
	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead %s: %s", data.InquiryNumber, data.FullName))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

// NotifyLeadConverted implements queue.LeadNotifier.
func (s *EmailSender) NotifyLeadConverted(_ context.Context, p queue.LeadConvertedPayload) error {
	data := NewLeadEmailData{
		FullName:      p.FullName,
		Phone:         p.Phone,
		Origin:        p.Origin,
		InquiryNumber: p.InquiryNumber,
		BranchID:      p.BranchID,
	}
	if p.AssignedTo != nil {
		data.AssignedTo = *p.AssignedTo
	}
	return s.SendNewLead(s.To, data)
}

// LogNotifier stands in for SMTP when it is not configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) NotifyLeadConverted(_ context.Context, p queue.LeadConvertedPayload) error {
	n.Logger.Info("new lead (smtp not configured)",
		zap.String("lead_id", p.LeadID),
		zap.String("inquiry_number", p.InquiryNumber),
		zap.String("branch_id", p.BranchID),
	)
	return nil
}
