// eco-rewards-system/services/impact_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"eco-rewards-system/models"
)

// ImpactEstimator is the boundary to the environmental impact collaborator.
// The ledger engine depends on this interface, not the HTTP client.
type ImpactEstimator interface {
	Estimate(ctx context.Context, itemType string) (models.ImpactRecord, error)
}

// ImpactServiceClient calls the external AI service for impact estimation and
// photo classification.
type ImpactServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type ClassifyResponse struct {
	IsValid    bool    `json:"is_valid"`
	ItemType   string  `json:"item_type"`
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
	Roast      string  `json:"roast,omitempty"`
}

func NewImpactServiceClient(baseURL, token string) *ImpactServiceClient {
	return &ImpactServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Estimate calls /impact/estimate on the AI service
func (c *ImpactServiceClient) Estimate(ctx context.Context, itemType string) (models.ImpactRecord, error) {
	var out models.ImpactRecord
	if err := c.post(ctx, "/impact/estimate", map[string]interface{}{"item_type": itemType}, &out); err != nil {
		return models.ImpactRecord{}, err
	}
	return out, nil
}

// Classify calls /classify on the AI service with the photo data URI
func (c *ImpactServiceClient) Classify(ctx context.Context, photoDataURI string) (*ClassifyResponse, error) {
	var out ClassifyResponse
	if err := c.post(ctx, "/classify", map[string]interface{}{"photo_data_uri": photoDataURI}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ImpactServiceClient) post(ctx context.Context, path string, reqBody map[string]interface{}, out interface{}) error {
	url := fmt.Sprintf("%s%s", c.BaseURL, path)

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("AI service %s returned %d: %s", path, resp.StatusCode, string(body))
		return fmt.Errorf("ai service call failed: %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
