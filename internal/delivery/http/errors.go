package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/service"
)

// toHTTPError maps service errors onto status codes. Unmapped errors are
// logged and reported as a generic 500.
func (h *Handler) toHTTPError(err error) error {
	var (
		fiberErr *fiber.Error
		fetchErr *domain.FetchError
		loadErr  *domain.LoadError
	)
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr
	case errors.As(err, &fetchErr):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Dataset download failed, please retry later")
	case errors.As(err, &loadErr):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Dataset could not be read: "+loadErr.Error())
	case errors.Is(err, domain.ErrNotLoaded):
		return fiber.NewError(fiber.StatusConflict, "No dataset loaded, POST /api/v1/dataset/load first")
	case errors.Is(err, service.ErrUnknownChart):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyChart):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Nothing to draw for the selected filters")
	case errors.Is(err, service.ErrInvalidSampleSize):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	h.logger.Error("request failed", zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
}

// ErrorHandler renders every error as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
