package evidence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var collectedAt = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

func TestNewValidatesConfidence(t *testing.T) {
	payload := RegistryCheck{Status: "AUTHORIZED", MatchConfidence: 0.9}

	_, err := New("firm-1", payload, 1.2, SourcePrimary, collectedAt)
	assert.Error(t, err)

	_, err = New("firm-1", payload, -0.1, SourcePrimary, collectedAt)
	assert.Error(t, err)

	ev, err := New("firm-1", payload, 1.0, SourcePrimary, collectedAt)
	require.NoError(t, err)
	assert.Equal(t, KindRegistryCheck, ev.Kind())
}

func TestNewRejectsUnknownSource(t *testing.T) {
	_, err := New("firm-1", Reputation{Rating: 4.2}, 0.8, Source("SECONDARY"), collectedAt)
	assert.Error(t, err)
}

func TestContentHashStableAcrossObservationTime(t *testing.T) {
	payload := SanctionsScreen{Status: "CLEAR"}

	a, err := New("firm-1", payload, 0.9, SourcePrimary, collectedAt)
	require.NoError(t, err)
	b, err := New("firm-1", payload, 0.7, SourcePrimary, collectedAt.Add(48*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash, "same fact must dedup regardless of when observed")
}

func TestContentHashDiffersByFirmAndPayload(t *testing.T) {
	payload := SanctionsScreen{Status: "CLEAR"}

	a, err := New("firm-1", payload, 0.9, SourcePrimary, collectedAt)
	require.NoError(t, err)
	b, err := New("firm-2", payload, 0.9, SourcePrimary, collectedAt)
	require.NoError(t, err)
	c, err := New("firm-1", SanctionsScreen{Status: "SANCTIONED"}, 0.9, SourcePrimary, collectedAt)
	require.NoError(t, err)

	assert.NotEqual(t, a.ContentHash, b.ContentHash)
	assert.NotEqual(t, a.ContentHash, c.ContentHash)
}

func TestJSONRoundTripPreservesTypedPayload(t *testing.T) {
	in, err := New("firm-9", RegulatoryNews{
		Items: []NewsItem{
			{Headline: "Final notice issued", Category: "enforcement", Severity: "high", PublishedAt: collectedAt},
		},
	}, 0.85, SourcePrimary, collectedAt)
	require.NoError(t, err)

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Evidence
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.ContentHash, out.ContentHash)
	assert.Equal(t, KindRegulatoryNews, out.Kind())
	news, ok := out.Payload.(RegulatoryNews)
	require.True(t, ok, "payload must decode to its concrete type")
	assert.Equal(t, "enforcement", news.Items[0].Category)
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	var out Evidence
	err := json.Unmarshal([]byte(`{"evidence_type":"psychic_reading","payload":{}}`), &out)
	assert.Error(t, err)
}
