package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trustlens/internal/cache"
	"trustlens/internal/ratelimit"
)

func newTestClient(t *testing.T, backend Backend) *Client {
	t.Helper()
	limiter, err := ratelimit.PerMinute("lookup-test", 600)
	require.NoError(t, err)
	client, err := NewClient(backend, cache.New("lookup-test-"+t.Name(), cache.NewMemoryBackend()), limiter)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCollaborators(t *testing.T) {
	limiter, err := ratelimit.PerMinute("lookup-req", 60)
	require.NoError(t, err)
	store := cache.New("lookup-req", cache.NewMemoryBackend())

	_, err = NewClient(nil, store, limiter)
	assert.Error(t, err)
	_, err = NewClient(NewFakeBackend(), nil, limiter)
	assert.Error(t, err)
	_, err = NewClient(NewFakeBackend(), store, nil)
	assert.Error(t, err)
}

func TestSearchCachesUnderNormalizedName(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	client := newTestClient(t, backend)
	ctx := context.Background()

	candidates := []Candidate{{ID: "123456", Name: "Alpha Funding Ltd", Status: RegistryAuthorized}}
	// Exactly one backend call: the second lookup differs only in punctuation
	// and case, so it must hit the cache.
	backend.EXPECT().
		Search(gomock.Any(), "Alpha Funding Ltd.", SearchFilters{}, 10, 0).
		Return(candidates, nil).
		Times(1)

	got, err := client.Search(ctx, "Alpha Funding Ltd.", SearchFilters{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, candidates, got)

	got, err = client.Search(ctx, "ALPHA funding ltd", SearchFilters{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, candidates, got)
}

func TestCacheHitSkipsRateLimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)

	// One permit total: if the cached read touched the limiter it would block.
	limiter, err := ratelimit.PerMinute("lookup-single", 1)
	require.NoError(t, err)
	client, err := NewClient(backend, cache.New("lookup-single", cache.NewMemoryBackend()), limiter)
	require.NoError(t, err)
	ctx := context.Background()

	rec := &FirmRecord{ID: "789", Name: "Beta Capital", Status: RegistryAuthorized}
	backend.EXPECT().FirmDetails(gomock.Any(), "789").Return(rec, nil).Times(1)

	got, err := client.FirmDetails(ctx, "789")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 0, limiter.Available())

	for i := 0; i < 5; i++ {
		got, err = client.FirmDetails(ctx, "789")
		require.NoError(t, err)
		assert.Equal(t, rec.Name, got.Name)
	}
}

func TestBackendErrorNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	client := newTestClient(t, backend)
	ctx := context.Background()

	backend.EXPECT().
		FirmDetails(gomock.Any(), "missing").
		Return(nil, &Error{Op: "details", Kind: FailureNotFound}).
		Times(2)

	_, err := client.FirmDetails(ctx, "missing")
	assert.True(t, IsNotFound(err))

	// A failure must not poison the cache; the next call goes upstream again.
	_, err = client.FirmDetails(ctx, "missing")
	assert.True(t, IsNotFound(err))
}

func TestScreenSanctionsNeverCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	client := newTestClient(t, backend)
	ctx := context.Background()

	backend.EXPECT().
		ScreenSanctions(gomock.Any(), "Gamma Trading", "GB").
		Return(&ScreenResult{Status: SanctionsClear}, nil).
		Times(3)

	for i := 0; i < 3; i++ {
		result, err := client.ScreenSanctions(ctx, "Gamma Trading", "GB")
		require.NoError(t, err)
		assert.Equal(t, SanctionsClear, result.Status)
	}
}

func TestInvalidateFirmDropsDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	client := newTestClient(t, backend)
	ctx := context.Background()

	rec := &FirmRecord{ID: "42", Name: "Delta Markets", Status: RegistrySuspended}
	backend.EXPECT().FirmDetails(gomock.Any(), "42").Return(rec, nil).Times(2)

	_, err := client.FirmDetails(ctx, "42")
	require.NoError(t, err)

	client.InvalidateFirm(ctx, "42")

	_, err = client.FirmDetails(ctx, "42")
	require.NoError(t, err)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alpha Funding Ltd.", "alphafundingltd"},
		{"  ALPHA-FUNDING ltd  ", "alphafundingltd"},
		{"Béta & Co", "btaco"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), tt.in)
	}
}
