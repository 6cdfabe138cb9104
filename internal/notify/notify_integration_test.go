//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"trustlens/internal/scoring"
	"trustlens/internal/verify"
	"trustlens/pkg/testutil/containers"
)

func TestKafkaPublisherIntegration(t *testing.T) {
	rc := containers.NewRedpandaContainer(t)
	const topic = "trustlens.events"
	rc.CreateTopic(t, topic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub, err := NewKafkaPublisher([]string{rc.Broker}, topic, logger)
	require.NoError(t, err)

	ctx := context.Background()
	pub.ScoreComputed(ctx, &scoring.Snapshot{
		ID:         "snap-1",
		FirmID:     "firm-001",
		VersionKey: "2026.1",
		Score:      78.5,
		ComputedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	pub.VerificationCompleted(ctx, "firm-002", &verify.Result{
		FirmName: "Borealis Markets",
		Overall:  verify.StatusReviewRequired,
	})
	pub.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rc.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	type received struct {
		Type    string          `json:"type"`
		FirmID  string          `json:"firm_id"`
		Payload json.RawMessage `json:"payload"`
		key     string
	}
	var events []received
	for len(events) < 2 {
		fetches := consumer.PollFetches(deadline)
		require.NoError(t, fetches.Err())
		fetches.EachRecord(func(rec *kgo.Record) {
			var ev received
			require.NoError(t, json.Unmarshal(rec.Value, &ev))
			ev.key = string(rec.Key)
			events = append(events, ev)
		})
	}
	require.Len(t, events, 2)

	assert.Equal(t, "score_computed", events[0].Type)
	assert.Equal(t, "firm-001", events[0].FirmID)
	assert.Equal(t, "firm-001", events[0].key)
	var snap scoring.Snapshot
	require.NoError(t, json.Unmarshal(events[0].Payload, &snap))
	assert.InDelta(t, 78.5, snap.Score, 1e-9)
	assert.Equal(t, "2026.1", snap.VersionKey)

	assert.Equal(t, "verification_completed", events[1].Type)
	assert.Equal(t, "firm-002", events[1].FirmID)
	var res verify.Result
	require.NoError(t, json.Unmarshal(events[1].Payload, &res))
	assert.Equal(t, verify.StatusReviewRequired, res.Overall)
}
