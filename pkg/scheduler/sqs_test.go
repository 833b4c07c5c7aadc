package scheduler_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/scheduler"
	"github.com/chris/golf-league-ledger/pkg/scheduler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublishAuditReport(t *testing.T) {
	report := &scheduler.AuditReport{
		ReportID:    "01J0000000000000000000000A",
		GeneratedAt: time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC),
		Audit: &ledger.AccountAudit{
			SumMode:     ledger.SumCompleted,
			MemberCount: 3,
			Mismatches:  []ledger.AccountMismatch{{MemberID: "b", DeltaCents: -500}},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		publisher := scheduler.NewSQSPublisher(mockClient, "https://sqs.local/audit")

		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var decoded scheduler.AuditReport
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &decoded); err != nil {
				return false
			}
			return aws.ToString(in.QueueUrl) == "https://sqs.local/audit" &&
				decoded.ReportID == report.ReportID &&
				aws.ToString(in.MessageAttributes["mismatches"].StringValue) == "1" &&
				aws.ToString(in.MessageAttributes["reportId"].StringValue) == report.ReportID
		})).Return(&sqs.SendMessageOutput{}, nil)

		require.NoError(t, publisher.PublishAuditReport(context.Background(), report))
	})

	t.Run("Send Failure", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		publisher := scheduler.NewSQSPublisher(mockClient, "https://sqs.local/audit")
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := publisher.PublishAuditReport(context.Background(), report)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})
}
