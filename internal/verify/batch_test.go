package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustlens/internal/lookup"
)

func TestVerifyBatchPreservesInputOrder(t *testing.T) {
	stub := &stubLookup{
		candidates: []lookup.Candidate{{ID: "1", Name: "Alpha Funding Ltd"}},
		details: map[string]*lookup.FirmRecord{
			"1": {ID: "1", Name: "Alpha Funding Ltd", Status: lookup.RegistryAuthorized},
		},
	}
	svc, err := NewService(stub)
	require.NoError(t, err)

	reqs := make([]Request, 20)
	for i := range reqs {
		reqs[i] = Request{FirmName: "Alpha Funding Ltd"}
	}
	results := svc.VerifyBatch(context.Background(), reqs)

	require.Len(t, results, len(reqs))
	for i, r := range results {
		require.NotNil(t, r, "slot %d", i)
		assert.Equal(t, "Alpha Funding Ltd", r.FirmName)
	}
}

func TestVerifyBatchIsolatesEntityFailure(t *testing.T) {
	stub := &stubLookup{
		candidates: []lookup.Candidate{{ID: "1", Name: "Alpha Funding Ltd"}},
		details: map[string]*lookup.FirmRecord{
			"1": {ID: "1", Name: "Alpha Funding Ltd", Status: lookup.RegistryAuthorized},
		},
	}
	svc, err := NewService(stub)
	require.NoError(t, err)

	// The middle request is invalid and fails verification outright; its slot
	// gets a synthetic result while its neighbors are unaffected.
	reqs := []Request{
		{FirmName: "Alpha Funding Ltd"},
		{FirmName: ""},
		{FirmName: "Alpha Funding Ltd"},
	}
	results := svc.VerifyBatch(context.Background(), reqs)

	require.Len(t, results, 3)
	assert.Equal(t, StatusClear, results[0].Overall)
	assert.Equal(t, StatusClear, results[2].Overall)

	failed := results[1]
	assert.Equal(t, StatusNotFound, failed.Overall)
	assert.Equal(t, RiskHigh, failed.Risk)
	require.NotEmpty(t, failed.RiskFactors)
	assert.Contains(t, failed.RiskFactors[0], "verification failed")
}

func TestVerifyBatchEmptyInput(t *testing.T) {
	svc, err := NewService(&stubLookup{})
	require.NoError(t, err)
	assert.Empty(t, svc.VerifyBatch(context.Background(), nil))
}
