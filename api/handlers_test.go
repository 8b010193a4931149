package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"casino/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stub services returning canned results per test
type stubSettlements struct {
	settlement *models.Settlement
	hand       *models.PokerHand
	history    []*models.Settlement
	err        error
}

func (s *stubSettlements) PlaceWager(context.Context, int64, *models.Wager) (*models.Settlement, error) {
	return s.settlement, s.err
}

func (s *stubSettlements) DealPoker(context.Context, int64, int64, int64) (*models.PokerHand, error) {
	return s.hand, s.err
}

func (s *stubSettlements) DrawPoker(context.Context, int64, int64, []int) (*models.Settlement, error) {
	return s.settlement, s.err
}

func (s *stubSettlements) GetHistory(context.Context, int64) ([]*models.Settlement, error) {
	return s.history, s.err
}

type stubOwnership struct {
	config *models.TableConfig
	info   *models.OwnershipInfo
	table  *models.Table
	err    error
}

func (s *stubOwnership) GetTableConfig(context.Context, int64) (*models.TableConfig, error) {
	return s.config, s.err
}

func (s *stubOwnership) GetOwnership(context.Context, int64) (*models.OwnershipInfo, error) {
	return s.info, s.err
}

func (s *stubOwnership) ClaimTable(context.Context, int64, int64) (*models.Table, error) {
	return s.table, s.err
}

func (s *stubOwnership) RelinquishTable(context.Context, int64, int64) error { return s.err }

func (s *stubOwnership) SetMaxBet(context.Context, int64, int64, int64) error { return s.err }

func (s *stubOwnership) SetBuyBackReward(context.Context, int64, int64, int64) error { return s.err }

func (s *stubOwnership) SellOnTrade(context.Context, int64, int64, int64) error { return s.err }

func (s *stubOwnership) BuyFromTrade(context.Context, int64, int64) (*models.Table, error) {
	return s.table, s.err
}

func (s *stubOwnership) SendToUser(context.Context, int64, int64, int64) error { return s.err }

type stubBuyBacks struct {
	offer *models.BuyBackOffer
	err   error
}

func (s *stubBuyBacks) ResolveBuyBack(context.Context, uuid.UUID, int64, bool) (*models.BuyBackOffer, error) {
	return s.offer, s.err
}

func (s *stubBuyBacks) ExpireDueOffers(context.Context) (int, error) { return 0, s.err }

type stubDraws struct {
	err error
}

func (s *stubDraws) EnterDraw(context.Context, int64, int64) error { return s.err }

func (s *stubDraws) RunDueDraws(context.Context) (int, error) { return 0, s.err }

func newTestServer(settlements *stubSettlements, ownership *stubOwnership, buyBacks *stubBuyBacks, draws *stubDraws) *Server {
	if settlements == nil {
		settlements = &stubSettlements{}
	}
	if ownership == nil {
		ownership = &stubOwnership{}
	}
	if buyBacks == nil {
		buyBacks = &stubBuyBacks{}
	}
	if draws == nil {
		draws = &stubDraws{}
	}
	return NewServer(settlements, ownership, buyBacks, draws)
}

func postJSON(t *testing.T, server *Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPlaceWagerEndpoint(t *testing.T) {
	settlement := &models.Settlement{
		TableID:  1,
		PlayerID: 77,
		GameType: models.GameTypeDice,
		State:    models.SettlementStatePaid,
		Win:      true,
		Payout:   5700,
		Paid:     5700,
	}
	server := newTestServer(&stubSettlements{settlement: settlement}, nil, nil, nil)

	resp := postJSON(t, server, "/tables/1/wagers", map[string]any{
		"player_id": 77,
		"stake":     1000,
		"selection": map[string]any{"number": 4, "sides": 6},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var got models.Settlement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, int64(5700), got.Paid)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.ErrInvalidWager, http.StatusBadRequest},
		{models.ErrInvalidSelection, http.StatusBadRequest},
		{models.ErrInsufficientFunds, http.StatusPaymentRequired},
		{models.ErrUnauthorized, http.StatusForbidden},
		{models.ErrTableNotFound, http.StatusNotFound},
		{models.ErrOfferAlreadyResolved, http.StatusConflict},
		{models.ErrConcurrentModification, http.StatusConflict},
		{models.ErrOfferExpired, http.StatusGone},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			server := newTestServer(&stubSettlements{err: fmt.Errorf("wrapped: %w", tt.err)}, nil, nil, nil)
			resp := postJSON(t, server, "/tables/1/wagers", map[string]any{"player_id": 77, "stake": 100})
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestInternalErrorIsOpaque(t *testing.T) {
	server := newTestServer(&stubSettlements{err: fmt.Errorf("pq: password authentication failed")}, nil, nil, nil)
	resp := postJSON(t, server, "/tables/1/wagers", map[string]any{"player_id": 77, "stake": 100})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal error", body["error"])
}

func TestResolveBuyBackEndpoint(t *testing.T) {
	offer := &models.BuyBackOffer{
		ID:     uuid.New(),
		Status: models.BuyBackStatusAccepted,
	}
	server := newTestServer(nil, nil, &stubBuyBacks{offer: offer}, nil)

	resp := postJSON(t, server, "/buybacks/"+offer.ID.String()+"/resolve", map[string]any{
		"player_id": 10,
		"accept":    true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, server, "/buybacks/not-a-uuid/resolve", map[string]any{"player_id": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvalidTableID(t *testing.T) {
	server := newTestServer(nil, nil, nil, nil)

	req, err := http.NewRequest(http.MethodGet, "/tables/abc", nil)
	require.NoError(t, err)
	resp, err := server.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
