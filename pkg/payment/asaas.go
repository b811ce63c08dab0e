package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clerky/website/internal/models"
	"github.com/clerky/website/pkg/utils"
)

// ErrNotConfigured is returned before any network call when the API URL or token is missing.
var ErrNotConfigured = errors.New("asaas api url or access token is not configured")

// APIError is a non-2xx answer from Asaas. Body is the raw response text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asaas returned status %d: %s", e.StatusCode, e.Body)
}

type AsaasService struct {
	baseURL     string
	accessToken string
	// hasToken is decided on the raw value, so a token of just quotes
	// still counts as configured and is sent empty.
	hasToken bool
	client   *http.Client
}

func NewAsaasService(baseURL, accessToken string) *AsaasService {
	raw := strings.TrimSpace(accessToken)
	return &AsaasService{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		accessToken: utils.TrimQuotes(raw),
		hasToken:    raw != "",
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CheckConfig reports ErrNotConfigured when the service cannot talk to Asaas.
func (s *AsaasService) CheckConfig() error {
	if s.baseURL == "" || !s.hasToken {
		return ErrNotConfigured
	}
	return nil
}

// CreateCheckout posts the session spec to {baseURL}/checkouts.
func (s *AsaasService) CreateCheckout(ctx context.Context, spec *models.CheckoutSessionSpec) (*models.ProviderCheckout, error) {
	if err := s.CheckConfig(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/checkouts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out models.ProviderCheckout
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
