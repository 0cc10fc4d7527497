package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	applog "grambazaar/internal/log"
	"grambazaar/internal/services"
)

type WalletHandler struct {
	Wallet *services.WalletService
}

// GET /api/wallet — balance plus ledger entries, newest first.
func (h *WalletHandler) View(c *fiber.Ctx) error {
	view, err := h.Wallet.View(actor(c).ID)
	if err != nil {
		return failure(c, "wallet.view.fail", err)
	}
	return c.JSON(view)
}

// GET /api/wallet/export — ledger as CSV attachment.
func (h *WalletHandler) Export(c *fiber.Ctx) error {
	sellerID := actor(c).ID
	var buf bytes.Buffer
	if err := h.Wallet.ExportCSV(sellerID, &buf); err != nil {
		return failure(c, "wallet.export.fail", err)
	}
	applog.Info(c, "wallet.export", map[string]any{"bytes": buf.Len()})
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ledger_%s.csv"`, sellerID))
	return c.Send(buf.Bytes())
}
