// Package crm syncs captured leads into the sales CRM so the sales
// team works there, not in our admin screens.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/queue"
)

type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
}

func NewClient() *Client {
	return &Client{
		apiToken: os.Getenv("CRM_API_TOKEN"),
		baseURL:  os.Getenv("CRM_API_URL"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SyncLead finds or creates the CRM contact and opens a deal on the
// website pipeline.
func (c *Client) SyncLead(ctx context.Context, payload queue.LeadCapturedPayload) error {
	if c.apiToken == "" || c.baseURL == "" {
		log.Println("⚠️ CRM: not configured, skipping sync")
		return nil
	}

	contactID, err := c.findOrCreateContact(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to find or create CRM contact: %w", err)
	}

	deal := dealPayload{
		Title:     fmt.Sprintf("%s - %s", payload.Name, payload.ServiceType),
		Pipeline:  "website-leads",
		ContactID: contactID,
		Tags:      []string{"website", payload.Kind},
		Notes:     payload.Message,
	}

	body, _ := json.Marshal(deal)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/deals", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to create CRM deal: %d - %s", resp.StatusCode, string(raw))
	}

	log.Printf("✅ CRM: deal opened for %s (%s)", payload.Name, payload.Kind)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, payload queue.LeadCapturedPayload) (int, error) {
	if id, err := c.findContactByEmail(ctx, payload.Email); err == nil && id > 0 {
		return id, nil
	}

	body, _ := json.Marshal(contactPayload{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts", bytes.NewBuffer(body))
	if err != nil {
		return 0, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to create contact: %d - %s", resp.StatusCode, string(raw))
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) findContactByEmail(ctx context.Context, email string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts?email="+email, nil)
	if err != nil {
		return 0, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("contact lookup failed: %d", resp.StatusCode)
	}

	var found struct {
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return 0, err
	}
	if len(found.Contacts) == 0 {
		return 0, fmt.Errorf("contact not found")
	}
	return found.Contacts[0].ID, nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
}
