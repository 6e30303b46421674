package duffel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"duffeltravel/internal/flight"
	"duffeltravel/internal/settings"
	"duffeltravel/pkg/logger"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.duffel.com"
	DefaultVersion = "v2"

	offerRequestsPath = "/air/offer_requests?return_offers=true"
	versionHeader     = "Duffel-Version"
	maxResponseBytes  = 32 << 20

	testKeyPrefix = "duffel_test_"
	liveKeyPrefix = "duffel_live_"
)

type Config struct {
	BaseURL   string
	Version   string
	RateLimit float64 // requests per second, <= 0 disables limiting
	Burst     int
}

// Client calls the Duffel offer request endpoint. Credentials are supplied per
// call so a settings change applies to the next search.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	limiter    *rate.Limiter
	logger     logger.Logger
	tracer     trace.Tracer
}

var _ flight.OfferSearcher = (*Client)(nil)

func NewClient(httpClient *http.Client, cfg Config, logger logger.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		version:    version,
		limiter:    limiter,
		logger:     logger,
		tracer:     otel.Tracer("duffeltravel/pkg/duffel"),
	}
}

type offerRequestBody struct {
	Data flight.SearchQuery `json:"data"`
}

// SearchOffers creates an offer request and returns its offers. Failures are
// returned as *flight.UpstreamError.
func (c *Client) SearchOffers(ctx context.Context, creds flight.Credentials, q flight.SearchQuery) (*flight.ProviderResponse, error) {
	ctx, span := c.tracer.Start(ctx, "duffel.SearchOffers", trace.WithAttributes(
		attribute.String("duffel.environment", string(creds.Environment)),
		attribute.Int("duffel.slices", len(q.Slices)),
		attribute.Int("duffel.passengers", len(q.Passengers)),
	))
	defer span.End()

	c.checkEnvironment(creds)

	resp, err := c.searchOffers(ctx, creds, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("duffel.offer_request_id", resp.RequestID),
		attribute.Int("duffel.offers", len(resp.Offers)),
	)
	return resp, nil
}

func (c *Client) searchOffers(ctx context.Context, creds flight.Credentials, q flight.SearchQuery) (*flight.ProviderResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, &flight.UpstreamError{Message: "request timed out", Timeout: true, Err: err}
		}
		return nil, &flight.UpstreamError{Message: "Too many flight searches, please try again shortly.", Err: err}
	}

	payload, err := json.Marshal(offerRequestBody{Data: q})
	if err != nil {
		return nil, fmt.Errorf("failed to encode offer request: %w", err)
	}

	url := c.baseURL + offerRequestsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("failed to build duffel request", logger.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(versionHeader, c.version)

	start := time.Now()
	httpResp, err := c.authorized(creds.APIKey).Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &flight.UpstreamError{Message: "request timed out", Timeout: true, Err: err}
		}
		return nil, &flight.UpstreamError{Message: err.Error(), Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, &flight.UpstreamError{Message: "request timed out", Timeout: true, Err: err}
		}
		return nil, &flight.UpstreamError{Message: "failed to read provider response", Err: err}
	}

	c.logger.Debug("duffel offer request completed",
		logger.Field{Key: "status", Value: httpResp.StatusCode},
		logger.Field{Key: "elapsed", Value: time.Since(start)},
		logger.Field{Key: "bytes", Value: len(body)},
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		upErr := parseErrorPayload(httpResp.StatusCode, body)
		c.logger.Error("duffel api returned an error",
			logger.Field{Key: "status", Value: httpResp.StatusCode},
			logger.Field{Key: "message", Value: upErr.Message},
		)
		return nil, upErr
	}

	return c.parseOffers(body)
}

// authorized wraps the shared client so every request carries the bearer key.
func (c *Client) authorized(apiKey string) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
			Base:   c.httpClient.Transport,
		},
		Timeout: c.httpClient.Timeout,
	}
}

func (c *Client) parseOffers(body []byte) (*flight.ProviderResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, &flight.UpstreamError{Message: "provider returned an invalid JSON response"}
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, &flight.UpstreamError{Message: "provider response has no data"}
	}

	resp := &flight.ProviderResponse{
		RequestID: data.Get("id").String(),
		LiveMode:  data.Get("live_mode").Bool(),
	}

	// Offers are decoded one by one so a single bad offer cannot fail the search.
	data.Get("offers").ForEach(func(key, value gjson.Result) bool {
		var offer flight.Offer
		if err := json.Unmarshal([]byte(value.Raw), &offer); err != nil {
			c.logger.Warn("skipping undecodable offer",
				logger.Field{Key: "offer_index", Value: int(key.Int())},
				logger.Field{Key: "offer_id", Value: value.Get("id").String()},
				logger.Field{Key: "error", Value: err},
			)
			return true
		}
		resp.Offers = append(resp.Offers, offer)
		return true
	})

	return resp, nil
}

func parseErrorPayload(status int, body []byte) *flight.UpstreamError {
	upErr := &flight.UpstreamError{StatusCode: status}

	gjson.GetBytes(body, "errors").ForEach(func(_, value gjson.Result) bool {
		upErr.Details = append(upErr.Details, flight.UpstreamErrorDetail{
			Code:    value.Get("code").String(),
			Title:   value.Get("title").String(),
			Message: value.Get("message").String(),
			Type:    value.Get("type").String(),
		})
		return true
	})

	for _, d := range upErr.Details {
		if d.Message != "" {
			upErr.Message = d.Message
			break
		}
		if d.Title != "" {
			upErr.Message = d.Title
			break
		}
	}
	if upErr.Message == "" {
		upErr.Message = fmt.Sprintf("Duffel API returned status %d", status)
	}
	return upErr
}

// checkEnvironment warns when the stored environment disagrees with the key.
// Duffel decides test or live mode from the key alone.
func (c *Client) checkEnvironment(creds flight.Credentials) {
	var keyEnv settings.Environment
	switch {
	case strings.HasPrefix(creds.APIKey, testKeyPrefix):
		keyEnv = settings.EnvironmentTest
	case strings.HasPrefix(creds.APIKey, liveKeyPrefix):
		keyEnv = settings.EnvironmentLive
	default:
		return
	}

	if keyEnv != creds.Environment {
		c.logger.Warn("api key does not match configured environment",
			logger.Field{Key: "configured", Value: string(creds.Environment)},
			logger.Field{Key: "key_environment", Value: string(keyEnv)},
		)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
