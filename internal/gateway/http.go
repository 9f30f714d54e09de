// Package gateway asks the energy service whether a pump may start.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
)

// ErrUnexpectedResponse is a well-formed exchange the checker cannot interpret,
// such as a 400 or a body that is not a boolean. It is not a transport fault.
var ErrUnexpectedResponse = errors.New("unexpected availability response")

// HTTPChecker calls GET {base}/api/pumps/{id}/availability.
type HTTPChecker struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

func NewHTTPChecker(baseURL string, timeout time.Duration, m *metrics.Metrics) *HTTPChecker {
	return &HTTPChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

func (c *HTTPChecker) Available(ctx context.Context, pumpID int64) (bool, error) {
	ok, err := c.get(ctx, pumpID)
	switch {
	case err != nil:
		c.metrics.AvailabilityCheck(metrics.OutcomeError)
	case ok:
		c.metrics.AvailabilityCheck(metrics.OutcomeAvailable)
	default:
		c.metrics.AvailabilityCheck(metrics.OutcomeUnavailable)
	}
	return ok, err
}

func (c *HTTPChecker) get(ctx context.Context, pumpID int64) (bool, error) {
	u := c.baseURL + "/api/pumps/" + strconv.FormatInt(pumpID, 10) + "/availability"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		// the caller gave up; that says nothing about the remote
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: pump %d unknown to energy service", domain.ErrNotFound, pumpID)
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("%w: %s", domain.ErrRemoteUnavailable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Status)
	}

	// a null body decodes to false
	var ok *bool
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	return ok != nil && *ok, nil
}
