// internal/workers/notification/send-candidate-notification/handler_test.go
package sendcandidatenotification

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/internal/common/logger"
)

type mockSES struct {
	err    error
	inputs []*ses.SendEmailInput
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	err    error
	inputs []*sns.PublishInput
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &sns.PublishOutput{}, nil
}

func testConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "recruiting@example.com",
		Timeout:      LoadConfig().Timeout,
	}
}

func newHandlerForTest(t *testing.T, cfg *Config, sesClient SESService, snsClient SNSService) *Handler {
	return NewHandlerWithClients(cfg, sesClient, snsClient, logger.NewTestLogger(t))
}

func TestExecuteSendsIDAssignedEmail(t *testing.T) {
	sesMock := &mockSES{}
	h := newHandlerForTest(t, testConfig(), sesMock, &mockSNS{})

	output, err := h.Execute(context.Background(), &Input{
		Email:            "john.smith@example.com",
		FullName:         "John Smith",
		NotificationType: TypeIDAssigned,
		CandidateID:      "CAND-0001",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)

	require.Len(t, sesMock.inputs, 1)
	body := *sesMock.inputs[0].Message.Body.Text.Data
	assert.Contains(t, body, "John Smith")
	assert.Contains(t, body, "CAND-0001")
	assert.Equal(t, "recruiting@example.com", *sesMock.inputs[0].Source)
}

func TestExecuteInterviewScheduledUsesMetadata(t *testing.T) {
	sesMock := &mockSES{}
	h := newHandlerForTest(t, testConfig(), sesMock, &mockSNS{})

	_, err := h.Execute(context.Background(), &Input{
		Email:            "maria.garcia@example.com",
		FullName:         "Maria Garcia",
		NotificationType: TypeInterviewScheduled,
		Metadata:         map[string]interface{}{"interviewTime": "2025-07-21 14:00"},
	})
	require.NoError(t, err)

	require.Len(t, sesMock.inputs, 1)
	assert.Contains(t, *sesMock.inputs[0].Message.Body.Text.Data, "2025-07-21 14:00")
}

func TestExecuteHighPrioritySendsSMS(t *testing.T) {
	snsMock := &mockSNS{}
	h := newHandlerForTest(t, testConfig(), &mockSES{}, snsMock)

	output, err := h.Execute(context.Background(), &Input{
		Email:            "john.smith@example.com",
		Phone:            "+15551234567",
		FullName:         "John Smith",
		NotificationType: TypeCVReceived,
		Priority:         "high",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+15551234567", *snsMock.inputs[0].PhoneNumber)
}

func TestExecuteNormalPrioritySkipsSMS(t *testing.T) {
	snsMock := &mockSNS{}
	h := newHandlerForTest(t, testConfig(), &mockSES{}, snsMock)

	_, err := h.Execute(context.Background(), &Input{
		Email:            "john.smith@example.com",
		Phone:            "+15551234567",
		NotificationType: TypeCVReceived,
	})
	require.NoError(t, err)
	assert.Empty(t, snsMock.inputs)
}

func TestExecuteEmailFailure(t *testing.T) {
	sesMock := &mockSES{err: errors.New("ses throttled")}
	h := newHandlerForTest(t, testConfig(), sesMock, &mockSNS{})

	output, err := h.Execute(context.Background(), &Input{
		Email:            "john.smith@example.com",
		NotificationType: TypeCVReceived,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestExecuteDisabledChannels(t *testing.T) {
	cfg := testConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	h := newHandlerForTest(t, cfg, &mockSES{}, &mockSNS{})

	output, err := h.Execute(context.Background(), &Input{
		Email:            "john.smith@example.com",
		NotificationType: TypeCVReceived,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestExecuteUnknownType(t *testing.T) {
	h := newHandlerForTest(t, testConfig(), &mockSES{}, &mockSNS{})

	_, err := h.Execute(context.Background(), &Input{
		Email:            "x@example.com",
		NotificationType: "carrier_pigeon",
	})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRenderTemplateRemovesUnknownPlaceholders(t *testing.T) {
	got := renderTemplate("Hello {{fullName}}, ref {{candidateId}}{{missing}}.", map[string]interface{}{
		"fullName":    "John",
		"candidateId": "CAND-0001",
	})
	assert.Equal(t, "Hello John, ref CAND-0001.", got)
}
