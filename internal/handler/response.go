package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

// statusFor maps service errors onto HTTP statuses
func statusFor(err error) int {
	var validation *domain.ValidationError
	var upstream *domain.UpstreamStoreError
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNothingToCreate):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrEmailLinkedElsewhere):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrExportUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &upstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		}).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "user not authenticated",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be YYYY-MM-DD, got %q", value)
	}
	return &t, nil
}

// parseRequiredDate is parseDate for fields that must be present
func parseRequiredDate(field, value string) (time.Time, error) {
	t, err := parseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, domain.NewValidationError(field, "is required")
	}
	return *t, nil
}

// queryInt reads an optional integer query parameter
func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer")
	}
	return n, nil
}

// dateRangeFromQuery reads the start and end query parameters
func dateRangeFromQuery(c *fiber.Ctx) (domain.DateRange, error) {
	start, err := parseDate("start", c.Query("start"))
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := parseDate("end", c.Query("end"))
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: start, End: end}, nil
}
