package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/patil-piyush/OceanGuard/engine"
)

type ErrorResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func badReq(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResp{OK: false, Error: msg})
}

func serverErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResp{OK: false, Error: err.Error()})
}

// engineErr maps the engine's failure taxonomy onto HTTP statuses.
func engineErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return badReq(c, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResp{OK: false, Error: err.Error()})
	case errors.Is(err, engine.ErrNotEligible), errors.Is(err, engine.ErrNotAssignee):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResp{OK: false, Error: err.Error()})
	case errors.Is(err, engine.ErrConflict), errors.Is(err, engine.ErrBadTransition):
		return c.Status(fiber.StatusConflict).JSON(ErrorResp{OK: false, Error: err.Error()})
	default:
		return serverErr(c, err)
	}
}
