package api

import (
	"strconv"

	"casino/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (s *Server) getTableConfig(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}
	cfg, err := s.ownership.GetTableConfig(c.Context(), tableID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

func (s *Server) getOwnership(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}
	info, err := s.ownership.GetOwnership(c.Context(), tableID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(info)
}

func (s *Server) getHistory(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}
	history, err := s.settlements.GetHistory(c.Context(), tableID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settlements": history})
}

func (s *Server) placeWager(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID  int64 `json:"player_id"`
		Stake     int64 `json:"stake"`
		Selection struct {
			Number int    `json:"number"`
			Sides  int    `json:"sides"`
			Bet    string `json:"bet"`
		} `json:"selection"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	wager := &models.Wager{
		PlayerID: body.PlayerID,
		Stake:    body.Stake,
		Selection: models.Selection{
			Number: body.Selection.Number,
			Sides:  body.Selection.Sides,
			Bet:    models.RouletteBet(body.Selection.Bet),
		},
	}

	settlement, err := s.settlements.PlaceWager(c.Context(), tableID, wager)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(settlement)
}

func (s *Server) dealPoker(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
		Stake    int64 `json:"stake"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	hand, err := s.settlements.DealPoker(c.Context(), tableID, body.PlayerID, body.Stake)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hand)
}

func (s *Server) drawPoker(c *fiber.Ctx) error {
	handID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
		Holds    []int `json:"holds"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	settlement, err := s.settlements.DrawPoker(c.Context(), handID, body.PlayerID, body.Holds)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settlement)
}

func (s *Server) claimTable(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	table, err := s.ownership.ClaimTable(c.Context(), tableID, body.PlayerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(table)
}

func (s *Server) relinquishTable(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.ownership.RelinquishTable(c.Context(), tableID, body.PlayerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) setMaxBet(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
		MaxBet   int64 `json:"max_bet"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.ownership.SetMaxBet(c.Context(), tableID, body.PlayerID, body.MaxBet); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) setBuyBackReward(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
		Points   int64 `json:"points"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.ownership.SetBuyBackReward(c.Context(), tableID, body.PlayerID, body.Points); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) sellOnTrade(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
		Price    int64 `json:"price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.ownership.SellOnTrade(c.Context(), tableID, body.PlayerID, body.Price); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) buyFromTrade(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	table, err := s.ownership.BuyFromTrade(c.Context(), tableID, body.PlayerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(table)
}

func (s *Server) sendToUser(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID    int64 `json:"player_id"`
		RecipientID int64 `json:"recipient_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.ownership.SendToUser(c.Context(), tableID, body.PlayerID, body.RecipientID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) enterDraw(c *fiber.Ctx) error {
	tableID, err := pathID(c)
	if err != nil {
		return err
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.draws.EnterDraw(c.Context(), tableID, body.PlayerID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "entered"})
}

func (s *Server) resolveBuyBack(c *fiber.Ctx) error {
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid offer id")
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
		Accept   bool  `json:"accept"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	offer, err := s.buyBacks.ResolveBuyBack(c.Context(), offerID, body.PlayerID, body.Accept)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(offer)
}
