package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the subset of the SQS client the publisher uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher implements the Publisher interface using AWS SQS.
type SQSPublisher struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSPublisher creates a new SQSPublisher.
func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Publisher = (*SQSPublisher)(nil)

// PublishAuditReport sends the report to an SQS queue. The mismatch count travels as a message
// attribute so consumers can filter clean runs without decoding the body.
func (p *SQSPublisher) PublishAuditReport(ctx context.Context, report *AuditReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal audit report for SQS: %w", err)
	}

	mismatches := 0
	if report.Audit != nil {
		mismatches = len(report.Audit.Mismatches)
	}

	_, err = p.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"reportId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(report.ReportID),
			},
			"mismatches": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(strconv.Itoa(mismatches)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send audit report to SQS: %w", err)
	}

	return nil
}
