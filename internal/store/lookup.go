package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/minhnc/appupdater/internal/errs"
)

// Lookup queries the remote catalog for the newest published release of a
// bundle in a country.
type Lookup struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	log      zerolog.Logger
}

// LookupResult is one catalog entry.
type LookupResult struct {
	Version          string
	ReleaseNotes     string
	StoreURL         string
	MinimumOSVersion string
}

// lookupResponse mirrors the catalog wire format. Every field is optional;
// missing values degrade to safe defaults.
type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		Version          string `json:"version"`
		ReleaseNotes     string `json:"releaseNotes"`
		TrackViewURL     string `json:"trackViewUrl"`
		MinimumOSVersion string `json:"minimumOsVersion"`
	} `json:"results"`
}

// NewLookup creates a catalog lookup client. The timeout bounds the whole
// Find operation, retries included.
func NewLookup(endpoint string, timeout time.Duration, log zerolog.Logger) *Lookup {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Lookup{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Find returns the catalog entry for bundleID in country, or nil when the
// catalog has no entry. Transport failures retry with exponential backoff
// until the timeout budget runs out.
func (l *Lookup) Find(ctx context.Context, bundleID, country string) (*LookupResult, error) {
	reqURL, err := l.buildURL(bundleID, country)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var result *LookupResult
	operation := func() error {
		var opErr error
		result, opErr = l.fetch(ctx, reqURL)
		return opErr
	}

	expBackOff := backoff.WithContext(&backoff.ExponentialBackOff{
		InitialInterval:     300 * time.Millisecond,
		RandomizationFactor: 0.3,
		Multiplier:          2,
		MaxInterval:         2 * time.Second,
		MaxElapsedTime:      l.timeout,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}, ctx)

	if err := backoff.Retry(operation, expBackOff); err != nil {
		if ctx.Err() != nil {
			return nil, errs.Newf(errs.NetworkError, "lookup timed out after %s", l.timeout)
		}
		return nil, err
	}

	return result, nil
}

func (l *Lookup) buildURL(bundleID, country string) (string, error) {
	u, err := url.Parse(l.endpoint)
	if err != nil {
		return "", errs.Newf(errs.StoreError, "invalid lookup endpoint: %v", err)
	}

	q := u.Query()
	q.Set("bundleId", bundleID)
	q.Set("country", country)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// fetch performs one catalog request. Server-side and transport failures
// are retryable; client errors and garbled payloads are permanent.
func (l *Lookup) fetch(ctx context.Context, reqURL string) (*LookupResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(errs.Newf(errs.NetworkError, "building lookup request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errs.Newf(errs.NetworkError, "lookup request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := errs.Newf(errs.StoreError, "lookup returned status %d", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, backoff.Permanent(errs.Newf(errs.StoreError, "decoding lookup response: %v", err))
	}

	// An empty result set means the bundle is unknown here, not a failure.
	if payload.ResultCount == 0 || len(payload.Results) == 0 {
		l.log.Debug().Str("url", reqURL).Msg("lookup returned no results")
		return nil, nil
	}

	first := payload.Results[0]
	return &LookupResult{
		Version:          first.Version,
		ReleaseNotes:     first.ReleaseNotes,
		StoreURL:         first.TrackViewURL,
		MinimumOSVersion: first.MinimumOSVersion,
	}, nil
}

// String identifies the lookup target for logs.
func (l *Lookup) String() string {
	return fmt.Sprintf("lookup(%s)", l.endpoint)
}
