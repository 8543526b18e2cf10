package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

var errInvalidMonth = errors.New("month must be between 1 and 12")

// monthQuery reads ?year=&month=, defaulting to the current UTC month.
func monthQuery(c *fiber.Ctx) (int, time.Month, error) {
	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return 0, 0, errInvalidMonth
	}
	return year, time.Month(month), nil
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}
