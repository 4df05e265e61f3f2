//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "clubdir/pkg/domain"
	audit "clubdir/pkg/platform/audit"
	kafkapub "clubdir/pkg/platform/audit/publishers/kafka"
	"clubdir/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	broker string
	topic  string
	pub    *kafkapub.Publisher
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T()).Broker
}

func (s *KafkaPublisherSuite) SetupTest() {
	// A fresh topic per test keeps consumed offsets independent.
	s.topic = fmt.Sprintf("clubdir.audit.%s", uuid.NewString())

	pub, err := kafkapub.New([]string{s.broker}, kafkapub.WithTopic(s.topic))
	s.Require().NoError(err)
	s.pub = pub

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Require().NoError(s.pub.EnsureTopic(ctx))
}

func (s *KafkaPublisherSuite) TearDownTest() {
	s.pub.Close()
}

func (s *KafkaPublisherSuite) TestEmitRoundTrip() {
	ctx := context.Background()
	principal := id.PrincipalID(uuid.New())

	event := audit.Event{
		Category:     audit.EventAccessDenied.Category(),
		Timestamp:    time.Now().UTC().Truncate(time.Millisecond),
		Principal:    principal,
		Action:       "delete",
		ResourceType: "club",
		ResourceID:   uuid.NewString(),
		Decision:     string(audit.EventAccessDenied),
		Reason:       "no clause grants delete on club",
		RequestID:    uuid.NewString(),
	}
	s.Require().NoError(s.pub.Emit(ctx, event))

	flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	s.Require().NoError(s.pub.Flush(flushCtx))

	records := s.consume(1)
	s.Require().Len(records, 1)
	s.Equal(principal.String(), string(records[0].Key))

	var got audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(event.Decision, got.Decision)
	s.Equal(event.Reason, got.Reason)
	s.Equal(event.ResourceID, got.ResourceID)
	s.Equal(audit.CategorySecurity, got.Category)
}

func (s *KafkaPublisherSuite) TestEventsForOnePrincipalShareAKey() {
	ctx := context.Background()
	principal := id.PrincipalID(uuid.New())

	for _, action := range []string{"view", "update", "delete"} {
		s.Require().NoError(s.pub.Emit(ctx, audit.Event{
			Category:  audit.CategoryOperations,
			Principal: principal,
			Action:    action,
			Decision:  string(audit.EventAccessAllowed),
		}))
	}

	flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	s.Require().NoError(s.pub.Flush(flushCtx))

	records := s.consume(3)
	s.Require().Len(records, 3)
	for _, record := range records {
		s.Equal(principal.String(), string(record.Key))
	}
}

// consume reads n records from the suite topic, failing the test on timeout.
func (s *KafkaPublisherSuite) consume(n int) []*kgo.Record {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) < n {
		fetches := client.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "timed out waiting for audit records")
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}
	return records
}
