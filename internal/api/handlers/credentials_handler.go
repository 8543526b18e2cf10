package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type ClientRefresher interface {
	Refresh(ctx context.Context) int
}

type CredentialsHandler struct {
	cs        service.CredentialService
	refresher ClientRefresher
	registry  service.PublisherRegistry
	formatter service.ContentFormatter
}

func NewCredentialsHandler(
	cs service.CredentialService,
	refresher ClientRefresher,
	registry service.PublisherRegistry,
	formatter service.ContentFormatter) *CredentialsHandler {
	return &CredentialsHandler{
		cs:        cs,
		refresher: refresher,
		registry:  registry,
		formatter: formatter,
	}
}

// SaveCredentials stores the secrets for one platform and rebuilds the clients.
func (h *CredentialsHandler) SaveCredentials(c *fiber.Ctx) error {
	platform, ok := models.ParsePlatform(c.Params("platform"))
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Unknown platform")
	}

	var values map[string]string
	if err := c.BodyParser(&values); err != nil {
		slog.Error(err.Error())
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	if err := h.cs.Save(c.UserContext(), platform, values); err != nil {
		if errors.Is(err, service.ErrUnknownCredentialKey) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Unable to save credentials")
	}

	h.refresher.Refresh(c.UserContext())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"platform":   platform,
		"configured": h.registry.Configured(platform),
	})
}

func (h *CredentialsHandler) ListPlatforms(c *fiber.Ctx) error {
	platforms := make([]transfer.PlatformInfo, 0, len(models.Platforms))
	for _, p := range models.Platforms {
		platforms = append(platforms, transfer.PlatformInfo{
			Platform:   string(p),
			Configured: h.registry.Configured(p),
			CharLimit:  h.formatter.Limit(p),
		})
	}
	return c.Status(fiber.StatusOK).JSON(platforms)
}
