package controllers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/patil-piyush/OceanGuard/auth"
	"github.com/patil-piyush/OceanGuard/engine"
	"github.com/patil-piyush/OceanGuard/models"
)

// ReportController exposes the lifecycle engine over HTTP. The engine is
// injected; controllers only parse, call, and serialize.
type ReportController struct {
	Engine *engine.Engine
}

// createTimeout is generous because creation runs the image upload,
// classification, and weather sampling inline.
const createTimeout = 60 * time.Second

// HandleCreateReport accepts a multipart form with an image plus lat/lng and
// runs the dispatch pipeline.
func (rc *ReportController) HandleCreateReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	latStr := strings.TrimSpace(c.FormValue("lat"))
	lngStr := strings.TrimSpace(c.FormValue("lng"))
	if lngStr == "" {
		lngStr = strings.TrimSpace(c.FormValue("long"))
	}
	if latStr == "" || lngStr == "" {
		return badReq(c, "image, latitude, and longitude are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return badReq(c, "latitude must be numeric")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return badReq(c, "longitude must be numeric")
	}

	fh, err := c.FormFile("image")
	if err != nil || fh == nil {
		return badReq(c, "image, latitude, and longitude are required")
	}
	file, err := fh.Open()
	if err != nil {
		return serverErr(c, err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Context(), createTimeout)
	defer cancel()

	out, err := rc.Engine.CreateReport(ctx, engine.CreateReportInput{
		UserID:   principal.ID,
		Image:    file,
		Size:     fh.Size,
		Filename: fh.Filename,
		Lat:      lat,
		Lng:      lng,
	})
	if err != nil {
		return engineErr(c, err)
	}

	r := out.Report
	label := "Debris"
	if r.Category == models.CategoryOilSpill {
		label = "Oil spill"
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreateReportResponse{
		OK:                  true,
		Message:             fmt.Sprintf("%s detected and reported successfully", label),
		ReportID:            r.ID.Hex(),
		ImageURL:            r.ImageURL,
		PredictedPath:       r.PredictedPath,
		MLOutput:            r.MLOutput,
		NotifiedAuthorities: len(r.NotifiedAuthorities),
	})
}

// HandleDecide lets a notified authority accept or reject a pending report.
func (rc *ReportController) HandleDecide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	reportID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badReq(c, "invalid report id")
	}

	var req models.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badReq(c, "invalid JSON")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	report, err := rc.Engine.Decide(ctx, reportID, principal.ID, req.Decision, req.Remarks)
	if err != nil {
		return engineErr(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "report": report})
}

// HandleUpdateStatus advances an assigned report along the cleanup chain.
func (rc *ReportController) HandleUpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: "not authenticated"})
	}

	reportID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badReq(c, "invalid report id")
	}

	var req models.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badReq(c, "invalid JSON")
	}
	if req.Status == "" {
		return badReq(c, "missing status")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	report, err := rc.Engine.UpdateStatus(ctx, reportID, principal.ID, models.Status(req.Status), req.Remarks)
	if err != nil {
		return engineErr(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "report": report})
}
