package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
)

type HistoryHandler struct {
	s    service.PostService
	repo repository.PostingHistoryRepository
}

// NewHistoryHandler accepts a nil repo when no history store is configured.
func NewHistoryHandler(service service.PostService, repo repository.PostingHistoryRepository) *HistoryHandler {
	return &HistoryHandler{s: service, repo: repo}
}

func (h *HistoryHandler) PostHistory(c *fiber.Ctx) error {
	if h.repo == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Posting history is not configured")
	}

	post, err := h.s.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Post not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	history, err := h.repo.ListByPostID(c.UserContext(), post.ID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Unable to load posting history")
	}
	if history == nil {
		history = []*models.PostingHistory{}
	}

	return c.Status(fiber.StatusOK).JSON(history)
}
