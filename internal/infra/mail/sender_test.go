package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestNotifyLeadConverted_SendsToSalesInbox(t *testing.T) {
	d := &captureDialer{}
	s := NewEmailSender("smtp.local", 587, "u", "p", "crm@example.com", "vendas@example.com").WithDialer(d)

	seller := "user-42"
	err := s.NotifyLeadConverted(context.Background(), queue.LeadConvertedPayload{
		LeadID:        "lead-1",
		InquiryNumber: "INQ-260101-001",
		FullName:      "Ana Souza",
		Phone:         "+5511999990000",
		Origin:        "Facebook Ads",
		AssignedTo:    &seller,
	})

	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"vendas@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Novo lead INQ-260101-001: Ana Souza"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "user-42")
}

func TestNotifyLeadConverted_DialError(t *testing.T) {
	d := &captureDialer{err: errors.New("connection refused")}
	s := NewEmailSender("smtp.local", 587, "", "", "crm@example.com", "vendas@example.com").WithDialer(d)

	err := s.NotifyLeadConverted(context.Background(), queue.LeadConvertedPayload{InquiryNumber: "INQ-260101-002"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLogNotifier(t *testing.T) {
	n := LogNotifier{Logger: zap.NewNop()}
	assert.NoError(t, n.NotifyLeadConverted(context.Background(), queue.LeadConvertedPayload{LeadID: "x"}))
}
