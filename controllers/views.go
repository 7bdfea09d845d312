package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/patil-piyush/OceanGuard/auth"
	"github.com/patil-piyush/OceanGuard/models"
)

// Read-only report views. These never touch status or history.

func (rc *ReportController) HandleMyReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	reports, err := rc.Engine.ListForUser(ctx, principal.ID)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(models.ReportListResponse{OK: true, Reports: reports})
}

// HandlePendingReports lists reports this authority was notified for that
// nobody has accepted yet.
func (rc *ReportController) HandlePendingReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	reports, err := rc.Engine.ListPendingForAuthority(ctx, principal.ID)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(models.ReportListResponse{OK: true, Reports: reports})
}

func (rc *ReportController) HandleCompletedReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	reports, err := rc.Engine.ListCompletedForAuthority(ctx, principal.ID)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(models.ReportListResponse{OK: true, Reports: reports})
}
