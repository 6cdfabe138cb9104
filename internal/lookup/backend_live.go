package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trustlens/internal/platform/config"
)

// Retry schedule for transient upstream failures. Fixed delays rather than
// jittered exponential; the rate limiter in front of this backend already
// spaces out concurrent callers.
var defaultBackoffSchedule = []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}

// Sanctions screening thresholds over the upstream match score.
const (
	sanctionedScore     = 0.95
	reviewRequiredScore = 0.80
	potentialMatchScore = 0.60
)

// LiveBackend talks to the real registry and sanctions services over HTTP.
// Transient failures (timeouts, 5xx) are retried on the schedule above;
// 4xx-class responses are surfaced immediately and never retried.
type LiveBackend struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	tracer  trace.Tracer
}

// NewLiveBackend builds the production backend from lookup configuration.
func NewLiveBackend(cfg config.Lookup) *LiveBackend {
	return newLiveBackend(cfg, defaultBackoffSchedule)
}

func newLiveBackend(cfg config.Lookup, schedule []time.Duration) *LiveBackend {
	rc := retryablehttp.NewClient()
	rc.RetryMax = len(schedule)
	rc.Backoff = fixedBackoff(schedule)
	rc.CheckRetry = retryTransient
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.Logger = nil

	return &LiveBackend{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    rc,
		tracer:  otel.Tracer("trustlens/lookup"),
	}
}

// fixedBackoff returns a retryablehttp backoff that walks the schedule,
// clamping at the last entry.
func fixedBackoff(schedule []time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		if attemptNum >= len(schedule) {
			attemptNum = len(schedule) - 1
		}
		return schedule[attemptNum]
	}
}

// retryTransient retries transport errors and server errors only. Client
// errors mean the request itself is wrong and will not improve with retries.
func retryTransient(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

func (b *LiveBackend) Search(ctx context.Context, name string, filters SearchFilters, limit, offset int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if filters.Country != "" {
		q.Set("country", filters.Country)
	}
	if filters.Status != "" {
		q.Set("status", filters.Status)
	}

	body, err := b.get(ctx, "search", "/firms/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var out []Candidate
	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		out = append(out, Candidate{
			ID:     item.Get("reference").String(),
			Name:   item.Get("name").String(),
			Status: normalizeRegistryStatus(item.Get("status").String()),
		})
		return true
	})
	return out, nil
}

func (b *LiveBackend) FirmDetails(ctx context.Context, id string) (*FirmRecord, error) {
	body, err := b.get(ctx, "details", "/firms/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil, &Error{Op: "details", Kind: FailureInvalid, Err: fmt.Errorf("response missing data envelope")}
	}

	rec := &FirmRecord{
		ID:      data.Get("reference").String(),
		Name:    data.Get("name").String(),
		Status:  normalizeRegistryStatus(data.Get("status").String()),
		Country: strings.ToUpper(data.Get("country").String()),
	}
	data.Get("permissions").ForEach(func(_, p gjson.Result) bool {
		rec.Permissions = append(rec.Permissions, p.String())
		return true
	})
	return rec, nil
}

func (b *LiveBackend) ScreenSanctions(ctx context.Context, name, country string) (*ScreenResult, error) {
	q := url.Values{}
	q.Set("name", name)
	if country != "" {
		q.Set("country", country)
	}

	body, err := b.get(ctx, "sanctions", "/sanctions/screen?"+q.Encode())
	if err != nil {
		return nil, err
	}

	result := &ScreenResult{Status: SanctionsClear}
	gjson.GetBytes(body, "results").ForEach(func(_, item gjson.Result) bool {
		result.Hits = append(result.Hits, SanctionsHit{
			ListedName: item.Get("name").String(),
			List:       item.Get("list").String(),
			Score:      item.Get("score").Float(),
		})
		return true
	})
	result.Status = classifyScreen(result.Hits)
	return result, nil
}

// classifyScreen derives the screening status from the best match score.
func classifyScreen(hits []SanctionsHit) SanctionsStatus {
	best := 0.0
	for _, h := range hits {
		if h.Score > best {
			best = h.Score
		}
	}
	switch {
	case best >= sanctionedScore:
		return SanctionsSanctioned
	case best >= reviewRequiredScore:
		return SanctionsReviewRequired
	case best >= potentialMatchScore:
		return SanctionsPotentialMatch
	default:
		return SanctionsClear
	}
}

// get performs one traced upstream call and classifies failures.
func (b *LiveBackend) get(ctx context.Context, op, path string) ([]byte, error) {
	ctx, span := b.tracer.Start(ctx, "lookup."+op, trace.WithAttributes(
		attribute.String("lookup.path", path),
	))
	defer span.End()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: FailureInvalid, Err: err}
	}
	if b.apiKey != "" {
		req.Header.Set("X-Api-Key", b.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		// retryablehttp only returns an error once the schedule is exhausted.
		span.SetStatus(codes.Error, "retries exhausted")
		return nil, &Error{Op: op, Kind: FailureExhausted, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Op: op, Kind: FailureNotFound}
	case resp.StatusCode >= 400:
		span.SetStatus(codes.Error, resp.Status)
		return nil, &Error{Op: op, Kind: FailureInvalid, Err: fmt.Errorf("upstream status %s", resp.Status)}
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, &Error{Op: op, Kind: FailureInvalid, Err: err}
	}
	return body, nil
}

// normalizeRegistryStatus maps the register's display statuses onto the
// closed RegistryStatus set.
func normalizeRegistryStatus(raw string) RegistryStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "authorised", "authorized", "active":
		return RegistryAuthorized
	case "suspended":
		return RegistrySuspended
	case "revoked", "cancelled", "canceled":
		return RegistryRevoked
	default:
		return RegistryNotFound
	}
}
