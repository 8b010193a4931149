// Package ledger talks to the platform points ledger. Settlement and
// ownership operations never hold player balances themselves; every
// debit and credit goes through here with an idempotency key so a
// retried call cannot move points twice.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"casino/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// HTTPClient calls a remote ledger over JSON/HTTP
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a ledger client for the given base URL
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type transferRequest struct {
	PlayerID      int64  `json:"player_id"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transaction_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Debit removes points from a player's balance
func (c *HTTPClient) Debit(ctx context.Context, playerID, amount int64, txID uuid.UUID) error {
	return c.post(ctx, "/v1/debits", playerID, amount, txID)
}

// Credit adds points to a player's balance
func (c *HTTPClient) Credit(ctx context.Context, playerID, amount int64, txID uuid.UUID) error {
	return c.post(ctx, "/v1/credits", playerID, amount, txID)
}

func (c *HTTPClient) post(ctx context.Context, path string, playerID, amount int64, txID uuid.UUID) error {
	if amount < 0 {
		return fmt.Errorf("ledger amount cannot be negative: %d", amount)
	}
	if amount == 0 {
		return nil
	}

	body, err := json.Marshal(transferRequest{
		PlayerID:      playerID,
		Amount:        amount,
		TransactionID: txID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ledger request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return fmt.Errorf("player %d: %w", playerID, models.ErrInsufficientFunds)
	default:
		var apiErr errorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Error != "" {
			log.WithFields(log.Fields{
				"status": resp.StatusCode,
				"path":   path,
			}).WithError(fmt.Errorf("%s", apiErr.Error)).Error("Ledger call failed")
			return fmt.Errorf("ledger returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("ledger returned %d", resp.StatusCode)
	}
}
