package verify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"trustlens/internal/lookup"
)

// Upper bound on concurrent verifications in one batch; the lookup rate
// limiter is the real throttle underneath.
const batchConcurrency = 8

// VerifyBatch verifies each request concurrently and returns one result per
// request in input order. A per-entity failure is substituted with a
// synthetic NOT_FOUND/HIGH result carrying the failure message; the batch
// itself never fails and never shrinks.
func (s *Service) VerifyBatch(ctx context.Context, reqs []Request) []*Result {
	results := make([]*Result, len(reqs))

	g := new(errgroup.Group)
	g.SetLimit(batchConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			result, err := s.Verify(ctx, req)
			if err != nil {
				result = s.failedResult(req, err)
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// failedResult is the synthetic slot for an entity whose verification could
// not run at all.
func (s *Service) failedResult(req Request, err error) *Result {
	return &Result{
		FirmName:    req.FirmName,
		Overall:     StatusNotFound,
		Risk:        RiskHigh,
		Registry:    RegistryOutcome{Status: lookup.RegistryNotFound, Failed: true, FailureMessage: err.Error()},
		Sanctions:   SanctionsOutcome{Status: lookup.SanctionsClear, Failed: true, FailureMessage: err.Error()},
		RiskFactors: []string{fmt.Sprintf("verification failed: %s", err.Error())},
		Timestamp:   s.clock(),
	}
}
