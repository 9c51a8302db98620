// Package credits is the client for the credits micro-service. The service
// exposes a single endpoint taking a check or deduct action keyed by user id,
// with email as a fallback lookup.
package credits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eloquo/eloquo/agent-service/internal/config"
)

// ErrUserNotFound is returned when the credits service does not know the user.
type ErrUserNotFound struct {
	UserID string
}

func (e *ErrUserNotFound) Error() string {
	return "credits: user not found: " + e.UserID
}

// ErrInsufficient is returned when the balance cannot cover the requested
// amount.
type ErrInsufficient struct {
	Need int
	Have int
}

func (e *ErrInsufficient) Error() string {
	return fmt.Sprintf("credits: insufficient credits: need %d, have %d", e.Need, e.Have)
}

// Client checks and deducts comprehensive credits.
type Client struct {
	baseURL string
	secret  string
	client  *http.Client
}

// New creates a credits client.
func New(cfg config.CreditsConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		secret:  cfg.Secret,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type creditsAction struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type creditsState struct {
	Remaining int `json:"comprehensive_credits_remaining"`
}

// Check returns the user's remaining credit balance.
func (c *Client) Check(ctx context.Context, userID, email string) (int, error) {
	resp, err := c.post(ctx, creditsAction{UserID: userID, Email: email, Action: "check"})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, &ErrUserNotFound{UserID: userID}
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("credits: check failed: status %d: %s", resp.StatusCode, string(respBody))
	}

	var state creditsState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return 0, fmt.Errorf("credits: decode check response: %w", err)
	}
	return state.Remaining, nil
}

// Deduct removes amount credits from the user's balance. The deduction is not
// transactional with whatever the caller does next; a downstream failure does
// not refund it.
func (c *Client) Deduct(ctx context.Context, userID, email string, amount int) error {
	resp, err := c.post(ctx, creditsAction{UserID: userID, Email: email, Action: "deduct", Amount: amount})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("credits: deduct failed: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) post(ctx context.Context, action creditsAction) (*http.Response, error) {
	body, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("credits: marshal action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/agent/credits", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("credits: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("credits: request failed: %w", err)
	}
	return resp, nil
}
