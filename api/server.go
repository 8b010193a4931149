// Package api exposes the casino core over HTTP. It is a thin layer:
// handlers parse requests, call the service layer, and translate
// domain errors to statuses. All rules live in the services.
package api

import (
	"net/http"
	"time"

	"casino/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Server wraps the fiber app and its route dependencies
type Server struct {
	app         *fiber.App
	settlements service.SettlementService
	ownership   service.OwnershipService
	buyBacks    service.BuyBackService
	draws       service.DrawService
}

// NewServer builds the HTTP server with all routes registered
func NewServer(settlements service.SettlementService, ownership service.OwnershipService, buyBacks service.BuyBackService, draws service.DrawService) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		settlements: settlements,
		ownership:   ownership,
		buyBacks:    buyBacks,
		draws:       draws,
	}

	s.app.Use(requestLogger())

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	tables := s.app.Group("/tables/:id")
	tables.Get("/", s.getTableConfig)
	tables.Get("/ownership", s.getOwnership)
	tables.Get("/history", s.getHistory)
	tables.Post("/wagers", s.placeWager)
	tables.Post("/poker/deal", s.dealPoker)
	tables.Post("/claim", s.claimTable)
	tables.Post("/relinquish", s.relinquishTable)
	tables.Post("/max-bet", s.setMaxBet)
	tables.Post("/buy-back-reward", s.setBuyBackReward)
	tables.Post("/sale", s.sellOnTrade)
	tables.Post("/sale/buy", s.buyFromTrade)
	tables.Post("/transfer", s.sendToUser)
	tables.Post("/draw-entries", s.enterDraw)

	s.app.Post("/poker/hands/:id/draw", s.drawPoker)
	s.app.Post("/buybacks/:id/resolve", s.resolveBuyBack)

	return s
}

// Listen serves until Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Test dispatches a request in-process, for handler tests
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req)
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start),
		}).Debug("Request handled")
		return err
	}
}
