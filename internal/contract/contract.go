package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Generator produces the rental contract document of a lease
type Generator interface {
	GenerateForLease(ctx context.Context, leaseID string) error
}

// NewGenerator returns the HTTP generator, or a no-op one when no contract service is configured
func NewGenerator(cfg *config.Configuration, log *logger.Logger) Generator {
	if strings.TrimSpace(cfg.Contract.BaseURL) == "" {
		log.Infow("contract service not configured, contract generation disabled")
		return NoopGenerator{}
	}
	return NewHTTPGenerator(cfg, log)
}

// NoopGenerator skips contract generation
type NoopGenerator struct{}

func (NoopGenerator) GenerateForLease(context.Context, string) error { return nil }

type generateRequest struct {
	LeaseID string `json:"lease_id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// HTTPGenerator calls the contract service over HTTP with retries
type HTTPGenerator struct {
	client  *retryablehttp.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

func NewHTTPGenerator(cfg *config.Configuration, log *logger.Logger) *HTTPGenerator {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Contract.RetryMax
	client.HTTPClient.Timeout = cfg.Contract.Timeout
	client.Logger = log.GetRetryableHTTPLogger()

	return &HTTPGenerator{
		client:  client,
		baseURL: strings.TrimRight(cfg.Contract.BaseURL, "/"),
		apiKey:  cfg.Contract.APIKey,
		log:     log,
	}
}

func (g *HTTPGenerator) GenerateForLease(ctx context.Context, leaseID string) error {
	bodyBytes, err := json.Marshal(generateRequest{LeaseID: leaseID})
	if err != nil {
		return ierr.NewError("failed to marshal contract request").
			Mark(ierr.ErrInternal)
	}

	endpoint := fmt.Sprintf("%s/leases/%s/contract", g.baseURL, url.PathEscape(leaseID))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create contract request").
			Mark(ierr.ErrInternal)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("X-API-Key", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Unable to reach the contract service").
			WithReportableDetails(map[string]interface{}{"lease_id": leaseID}).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("contract service returned HTTP %d", resp.StatusCode)
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			msg = errResp.Message
		}
		return ierr.NewError(msg).
			WithHintf("Contract generation failed with HTTP status %d", resp.StatusCode).
			WithReportableDetails(map[string]interface{}{
				"lease_id": leaseID,
				"status":   resp.StatusCode,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	g.log.WithContext(ctx).Infow("contract generated", "lease_id", leaseID)
	return nil
}
