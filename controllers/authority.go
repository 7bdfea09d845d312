package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/patil-piyush/OceanGuard/auth"
	"github.com/patil-piyush/OceanGuard/models"
	"github.com/patil-piyush/OceanGuard/store"
)

// AuthorityController handles the one authority-owned toggle this API
// writes: availability. Everything else about authorities lives in the
// account service.
type AuthorityController struct {
	Authorities *store.AuthorityStore
}

func (ac *AuthorityController) HandleAvailability(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	var req models.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badReq(c, "invalid JSON")
	}
	if req.IsAvailable == nil {
		return badReq(c, "is_available must be provided")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	matched, err := ac.Authorities.SetAvailability(ctx, principal.ID, *req.IsAvailable)
	if err != nil {
		return serverErr(c, err)
	}
	if matched == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResp{OK: false, Error: "authority not found"})
	}
	return c.JSON(fiber.Map{"ok": true, "is_available": *req.IsAvailable})
}
