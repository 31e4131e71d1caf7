// Package printapi provides the HTTP client for the external print-on-demand
// provider. The wire protocol is JSON over REST; retry policy and timeouts
// live here, behind the PrintProvider port.
package printapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pawtraits/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Client talks to the print provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a print provider client for the given API endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type submitRequest struct {
	OrderID     string              `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Items       []submitRequestItem `json:"items"`
}

type submitRequestItem struct {
	ItemID      string   `json:"item_id"`
	ProductType string   `json:"product_type"`
	StorageKeys []string `json:"storage_keys"`
}

type jobResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

// Submit sends a batch of physical items for printing and returns the
// provider-side job.
func (c *Client) Submit(ctx context.Context, submission ports.PrintSubmission) (ports.PrintJob, error) {
	payload := submitRequest{
		OrderID:     submission.OrderID,
		OrderNumber: submission.OrderNumber,
		Items:       make([]submitRequestItem, 0, len(submission.Items)),
	}
	for _, item := range submission.Items {
		payload.Items = append(payload.Items, submitRequestItem{
			ItemID:      item.ItemID,
			ProductType: item.ProductType,
			StorageKeys: item.StorageKeys,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.PrintJob{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/print-jobs", bytes.NewReader(body))
	if err != nil {
		return ports.PrintJob{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(req)
}

// Job retrieves the current provider-side state of a submitted job.
func (c *Client) Job(ctx context.Context, jobID string) (ports.PrintJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/print-jobs/"+jobID, nil)
	if err != nil {
		return ports.PrintJob{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (ports.PrintJob, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.PrintJob{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep the provider's message, truncated so log lines stay sane.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ports.PrintJob{}, fmt.Errorf("print provider returned %d: %s", resp.StatusCode, snippet)
	}

	var job jobResponse
	if err = json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return ports.PrintJob{}, fmt.Errorf("decode print provider response: %w", err)
	}

	return ports.PrintJob{
		ID:             job.ID,
		Status:         job.Status,
		TrackingNumber: job.TrackingNumber,
		Carrier:        job.Carrier,
	}, nil
}
