package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-engine/internal/analysis/record"
	"resume-match-engine/internal/common/config"
	"resume-match-engine/internal/common/logger"
)

// ==========================
// Mock AWS Clients
// ==========================

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func testConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.AWS.Region = "us-east-1"
	cfg.AWS.SES.Enabled = true
	cfg.AWS.SES.FromEmail = "noreply@example.com"
	cfg.AWS.SNS.Enabled = true
	cfg.AWS.SNS.TopicARN = "arn:aws:sns:us-east-1:123456789012:hiring-decisions"
	cfg.Recipients = []string{"recruiter@example.com", "hiring-manager@example.com"}
	return cfg
}

func hireRecord() *record.AnalysisRecord {
	return &record.AnalysisRecord{
		ID:             "rec-1",
		ResumeFilename: "resume.pdf",
		OverallScore:   85.4,
		MatchLevel:     "excellent",
		HiringRecommendation: record.HiringRecommendation{
			Decision:   "HIRE",
			Confidence: 87.5,
			Reasoning:  "strong alignment",
		},
	}
}

// ==========================
// Notifier Tests
// ==========================

func TestNotifier_NotifyDecision_HireSendsToAllChannels(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewWithClients(testConfig(), sesMock, snsMock, logger.NewNoOpLogger())

	n.NotifyDecision(context.Background(), hireRecord())

	require.Len(t, sesMock.inputs, 2)
	assert.Equal(t, "noreply@example.com", *sesMock.inputs[0].Source)
	assert.Equal(t, []string{"recruiter@example.com"}, sesMock.inputs[0].Destination.ToAddresses)
	assert.Contains(t, *sesMock.inputs[0].Message.Subject.Data, "HIRE")

	require.Len(t, snsMock.inputs, 1)
	assert.Contains(t, *snsMock.inputs[0].Message, "Resume Analysis Report")
}

func TestNotifier_NotifyDecision_SkipsNonHireDecisions(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewWithClients(testConfig(), sesMock, snsMock, logger.NewNoOpLogger())

	for _, decision := range []string{"REVIEW", "REJECT"} {
		rec := hireRecord()
		rec.HiringRecommendation.Decision = decision
		n.NotifyDecision(context.Background(), rec)
	}

	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestNotifier_NotifyDecision_FailuresAreSwallowed(t *testing.T) {
	sesMock := &mockSES{err: errors.New("ses throttled")}
	snsMock := &mockSNS{err: errors.New("topic missing")}
	n := NewWithClients(testConfig(), sesMock, snsMock, logger.NewNoOpLogger())

	assert.NotPanics(t, func() {
		n.NotifyDecision(context.Background(), hireRecord())
	})
	assert.Len(t, sesMock.inputs, 2)
}

func TestNotifier_NotifyDecision_RespectsChannelToggles(t *testing.T) {
	cfg := testConfig()
	cfg.AWS.SES.Enabled = false

	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewWithClients(cfg, sesMock, snsMock, logger.NewNoOpLogger())

	n.NotifyDecision(context.Background(), hireRecord())

	assert.Empty(t, sesMock.inputs)
	assert.Len(t, snsMock.inputs, 1)
}
