package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"trustlens/internal/lookup"
)

// stubLookup lets each test control the two halves independently.
type stubLookup struct {
	candidates   []lookup.Candidate
	searchErr    error
	details      map[string]*lookup.FirmRecord
	detailsErr   error
	screen       *lookup.ScreenResult
	screenErr    error
	screenCalled bool
}

func (s *stubLookup) Search(_ context.Context, _ string, _ lookup.SearchFilters, _, _ int) ([]lookup.Candidate, error) {
	return s.candidates, s.searchErr
}

func (s *stubLookup) FirmDetails(_ context.Context, id string) (*lookup.FirmRecord, error) {
	if s.detailsErr != nil {
		return nil, s.detailsErr
	}
	rec, ok := s.details[id]
	if !ok {
		return nil, &lookup.Error{Op: "details", Kind: lookup.FailureNotFound}
	}
	return rec, nil
}

func (s *stubLookup) ScreenSanctions(_ context.Context, _, _ string) (*lookup.ScreenResult, error) {
	s.screenCalled = true
	if s.screenErr != nil {
		return nil, s.screenErr
	}
	if s.screen != nil {
		return s.screen, nil
	}
	return &lookup.ScreenResult{Status: lookup.SanctionsClear}, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ServiceSuite) newService(l Lookup) *Service {
	svc, err := NewService(l)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) TestRequiresLookup() {
	_, err := NewService(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestRequiresFirmName() {
	svc := s.newService(&stubLookup{})
	_, err := svc.Verify(s.ctx, Request{})
	s.Error(err)
}

func (s *ServiceSuite) TestAuthorizedAndClear() {
	stub := &stubLookup{
		candidates: []lookup.Candidate{{ID: "100001", Name: "Alpha Funding Ltd", Status: lookup.RegistryAuthorized}},
		details: map[string]*lookup.FirmRecord{
			"100001": {ID: "100001", Name: "Alpha Funding Ltd", Status: lookup.RegistryAuthorized, Country: "GB"},
		},
	}
	svc := s.newService(stub)

	result, err := svc.Verify(s.ctx, Request{FirmName: "Alpha Funding Ltd", Country: "GB"})
	s.Require().NoError(err)
	s.Equal(StatusClear, result.Overall)
	s.Equal(RiskLow, result.Risk)
	s.Equal("100001", result.Registry.Reference)
	s.InDelta(1.0, result.Registry.MatchConfidence, 1e-9)
}

func (s *ServiceSuite) TestLowSimilarityIsNotFound() {
	stub := &stubLookup{
		candidates: []lookup.Candidate{{ID: "9", Name: "Zenith Capital Partners", Status: lookup.RegistryAuthorized}},
		details: map[string]*lookup.FirmRecord{
			"9": {ID: "9", Name: "Zenith Capital Partners", Status: lookup.RegistryAuthorized},
		},
	}
	svc := s.newService(stub)

	result, err := svc.Verify(s.ctx, Request{FirmName: "Alpha Funding Ltd"})
	s.Require().NoError(err)
	s.Equal(lookup.RegistryNotFound, result.Registry.Status)
	s.Equal(StatusNotFound, result.Overall)
}

func (s *ServiceSuite) TestSanctionsAlwaysRuns() {
	stub := &stubLookup{
		searchErr: &lookup.Error{Op: "search", Kind: lookup.FailureExhausted, Err: errors.New("upstream down")},
		screen:    &lookup.ScreenResult{Status: lookup.SanctionsSanctioned, Hits: []lookup.SanctionsHit{{Score: 0.97}}},
	}
	svc := s.newService(stub)

	result, err := svc.Verify(s.ctx, Request{FirmName: "Alpha Funding Ltd"})
	s.Require().NoError(err)
	s.True(stub.screenCalled, "sanctions screening must run despite registry failure")
	s.Equal(StatusSanctioned, result.Overall)
	s.Equal(RiskHigh, result.Risk)
	s.True(result.Registry.Failed)
}

func (s *ServiceSuite) TestLookupExhaustionDegradesToNotFound() {
	stub := &stubLookup{
		searchErr: &lookup.Error{Op: "search", Kind: lookup.FailureExhausted, Err: errors.New("timeout")},
	}
	svc := s.newService(stub)

	result, err := svc.Verify(s.ctx, Request{FirmName: "Alpha Funding Ltd"})
	s.Require().NoError(err, "lookup failure must never fail the verification")
	s.Equal(StatusNotFound, result.Overall)
	s.Zero(result.Registry.MatchConfidence)
	s.NotEmpty(result.RiskFactors)
}

func (s *ServiceSuite) TestSanctionsFailureDegradesToClear() {
	stub := &stubLookup{
		candidates: []lookup.Candidate{{ID: "1", Name: "Alpha Funding Ltd"}},
		details: map[string]*lookup.FirmRecord{
			"1": {ID: "1", Name: "Alpha Funding Ltd", Status: lookup.RegistryAuthorized},
		},
		screenErr: &lookup.Error{Op: "sanctions", Kind: lookup.FailureExhausted, Err: errors.New("timeout")},
	}
	svc := s.newService(stub)

	result, err := svc.Verify(s.ctx, Request{FirmName: "Alpha Funding Ltd"})
	s.Require().NoError(err)
	s.Equal(StatusClear, result.Overall)
	s.True(result.Sanctions.Failed)
	s.Require().Len(result.RiskFactors, 1)
	s.Contains(result.RiskFactors[0], "sanctions screening failed")
}
