// Package detect talks to the external detection service that classifies a
// sighting image as oil spill, debris, or nothing.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patil-piyush/OceanGuard/models"
)

// Result is the classifier verdict for one image.
type Result struct {
	Category models.Category
	MLOutput models.MLOutput
}

// Client calls an external detection service over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type classifyRequest struct {
	ImageURL string `json:"image_url"`
}

type classifyResponse struct {
	Category         string  `json:"category"`
	OilConfidence    float64 `json:"oil_confidence"`
	DebrisConfidence float64 `json:"debris_confidence"`
	Error            string  `json:"error,omitempty"`
}

// Classify sends the stored image URL to the detection service.
func (c *Client) Classify(ctx context.Context, imageURL string) (Result, error) {
	if c.endpoint == "" {
		return Result{}, fmt.Errorf("detection endpoint not configured")
	}

	body, err := json.Marshal(classifyRequest{ImageURL: imageURL})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("detection service returned %d: %s", resp.StatusCode, raw)
	}

	var payload classifyResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != "" {
		return Result{}, fmt.Errorf("detection service: %s", payload.Error)
	}

	category := models.Category(payload.Category)
	switch category {
	case models.CategoryOilSpill, models.CategoryDebris, models.CategoryNone:
	default:
		return Result{}, fmt.Errorf("detection service returned unknown category %q", payload.Category)
	}

	return Result{
		Category: category,
		MLOutput: models.MLOutput{
			OilConfidence:    payload.OilConfidence,
			DebrisConfidence: payload.DebrisConfidence,
		},
	}, nil
}
