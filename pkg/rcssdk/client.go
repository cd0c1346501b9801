package rcssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultVersion = "v3.1.10"

	APIClientHeader             = "x-api-client-id"
	IdempotencyKeyHeader        = "x-idempotency-key"
	IdempotencyExpirationHeader = "x-idempotency-expiration"
	InteractionIDHeader         = "x-fapi-interaction-id"
)

// Client calls the service as one API client.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	APIClientID string

	// Version is the Open Banking API version used in consent paths.
	Version string
}

func NewClient(baseURL, apiClientID string) *Client {
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		APIClientID: apiClientID,
		Version:     DefaultVersion,
	}
}

// As returns a copy of the client acting for another API client.
func (c *Client) As(apiClientID string) *Client {
	out := *c
	out.APIClientID = apiClientID
	return &out
}

func (c *Client) consentPath(resource string, parts ...string) string {
	p := "/open-banking/" + url.PathEscape(c.Version) + "/" + url.PathEscape(resource)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// CreateConsent creates a consent under an idempotency key. The boolean is
// false when the service returned the consent already created with that key.
func (c *Client) CreateConsent(
	ctx context.Context,
	resource, idempotencyKey string,
	req CreateConsentRequest,
) (*ConsentResponse, bool, error) {
	return c.CreateConsentWithExpiration(ctx, resource, idempotencyKey, time.Time{}, req)
}

// CreateConsentWithExpiration is CreateConsent with an explicit idempotency
// key expiry. A zero expiration leaves the service default.
func (c *Client) CreateConsentWithExpiration(
	ctx context.Context,
	resource, idempotencyKey string,
	expiration time.Time,
	req CreateConsentRequest,
) (*ConsentResponse, bool, error) {
	headers := map[string]string{IdempotencyKeyHeader: idempotencyKey}
	if !expiration.IsZero() {
		headers[IdempotencyExpirationHeader] = expiration.UTC().Format(time.RFC3339)
	}

	resp, err := c.doJSON(ctx, http.MethodPost, c.consentPath(resource), req, headers)
	if err != nil {
		return nil, false, err
	}

	created := resp.StatusCode == http.StatusCreated
	expected := http.StatusOK
	if created {
		expected = http.StatusCreated
	}

	var out ConsentResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

func (c *Client) GetConsent(ctx context.Context, resource, consentID string) (*ConsentResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, c.consentPath(resource, consentID), nil, nil)
	if err != nil {
		return nil, err
	}
	var out ConsentResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConsumeConsent marks an authorised consent as used.
func (c *Client) ConsumeConsent(ctx context.Context, resource, consentID string) (*ConsentResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, c.consentPath(resource, consentID, "consume"), nil, nil)
	if err != nil {
		return nil, err
	}
	var out ConsentResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConsentDetails(ctx context.Context, intentID, userID string) (*ConsentDetailsResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/rcs/consents/details",
		DetailsRequest{IntentID: intentID, UserID: userID}, nil)
	if err != nil {
		return nil, err
	}
	var out ConsentDetailsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitDecision(ctx context.Context, req DecisionRequest) (*DecisionResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/rcs/consents/decision", req, nil)
	if err != nil {
		return nil, err
	}
	var out DecisionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	return getJSON[JWKSResponse](ctx, c, "/.well-known/jwks.json")
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return getJSON[HealthResponse](ctx, c, "/livez")
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return getJSON[HealthResponse](ctx, c, "/readyz")
}

func getJSON[T any](ctx context.Context, c *Client, path string) (*T, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON sends an API client scoped request with an optional JSON body.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	body any,
	headers map[string]string,
) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	h := map[string]string{APIClientHeader: c.APIClientID}
	if body != nil {
		h["Content-Type"] = "application/json"
	}
	for k, v := range headers {
		h[k] = v
	}
	return c.do(ctx, method, path, r, h)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
