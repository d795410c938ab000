// Package notify pushes hiring-decision notifications over SES email and an
// SNS topic. Notification failures are logged and dropped; they never reach
// the analysis path.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"resume-match-engine/internal/analysis/record"
	"resume-match-engine/internal/common/config"
	"resume-match-engine/internal/common/logger"
)

// Interfaces for mocking the AWS clients.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier sends decision notifications for completed analyses. Only HIRE
// decisions are pushed; everything else stays in the stored record.
type Notifier struct {
	cfg       config.NotificationConfig
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

// New builds a notifier with real AWS clients.
func New(cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	n := NewWithClients(cfg, ses.NewFromConfig(awsCfg), sns.NewFromConfig(awsCfg), log)
	return n, nil
}

// NewWithClients builds a notifier with injected clients.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// NotifyDecision pushes the record's hiring decision to the configured
// channels. All failures are swallowed after logging.
func (n *Notifier) NotifyDecision(ctx context.Context, rec *record.AnalysisRecord) {
	if rec.HiringRecommendation.Decision != "HIRE" {
		return
	}

	subject := fmt.Sprintf("Hiring recommendation: %s for %s",
		rec.HiringRecommendation.Decision, rec.ResumeFilename)
	body := rec.Report()

	if n.cfg.AWS.SES.Enabled && n.sesClient != nil {
		n.sendEmails(ctx, subject, body, rec.ID)
	}
	if n.cfg.AWS.SNS.Enabled && n.snsClient != nil {
		n.publish(ctx, subject, body, rec.ID)
	}
}

func (n *Notifier) sendEmails(ctx context.Context, subject, body, recordID string) {
	for _, to := range n.cfg.Recipients {
		_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
			Destination: &types.Destination{
				ToAddresses: []string{to},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
			Source: aws.String(n.cfg.AWS.SES.FromEmail),
		})
		if err != nil {
			n.logger.Warn("decision email failed", map[string]interface{}{
				"recordId":  recordID,
				"recipient": to,
				"error":     err.Error(),
			})
		}
	}
}

func (n *Notifier) publish(ctx context.Context, subject, body, recordID string) {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.AWS.SNS.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		n.logger.Warn("decision topic publish failed", map[string]interface{}{
			"recordId": recordID,
			"error":    err.Error(),
		})
	}
}
