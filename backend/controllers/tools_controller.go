package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"portal/backend/prices"
	"portal/backend/utils"
	"portal/backend/wallet"
)

// ToolsController exposes the thin proxies to external collaborators:
// the BTC price API and the Lightning wallet API.
type ToolsController struct {
	Prices *prices.Service
	Wallet *wallet.Proxy
}

func NewToolsController(priceService *prices.Service, walletProxy *wallet.Proxy) *ToolsController {
	return &ToolsController{Prices: priceService, Wallet: walletProxy}
}

func (tc *ToolsController) GetPrice(c *fiber.Ctx) error {
	price, cached, err := tc.Prices.Current()
	if err != nil {
		return utils.ServiceUnavailable(c, "Price unavailable")
	}
	return c.JSON(fiber.Map{
		"usd":    price,
		"cached": cached,
	})
}

// CreateInvoice relays an invoice request to the wallet API verbatim.
func (tc *ToolsController) CreateInvoice(c *fiber.Ctx) error {
	status, payload, err := tc.Wallet.Forward(fiber.MethodPost, "payments", c.Body())
	if err != nil {
		if errors.Is(err, wallet.ErrNotConfigured) {
			return utils.ServiceUnavailable(c, "Wallet API is not configured")
		}
		return utils.ServiceUnavailable(c, "Wallet API unreachable")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(payload)
}
