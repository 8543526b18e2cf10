package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type Dispatcher interface {
	RunOnce(ctx context.Context) transfer.DispatchReport
}

type PostHandler struct {
	s service.PostService
	d Dispatcher
}

func NewPostHandler(service service.PostService, dispatcher Dispatcher) *PostHandler {
	return &PostHandler{s: service, d: dispatcher}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req transfer.PostCreation
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	post, err := h.s.Schedule(&req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPlatform) || errors.Is(err, service.ErrInvalidScheduleTime) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.s.List())
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Post not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) MonthPosts(c *fiber.Ctx) error {
	year, month, err := monthQuery(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(h.s.PostsForMonth(year, month))
}

func (h *PostHandler) Calendar(c *fiber.Ctx) error {
	year, month, err := monthQuery(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"year":  year,
		"month": int(month),
		"days":  h.s.CalendarCounts(year, month),
	})
}

func (h *PostHandler) ExportPosts(c *fiber.Ctx) error {
	c.Attachment("posts.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")

	if err := h.s.ExportCSV(c); err != nil {
		slog.Error(err.Error())
		return errorJSON(c, fiber.StatusInternalServerError, "Unable to export posts")
	}
	return nil
}

func (h *PostHandler) Dispatch(c *fiber.Ctx) error {
	report := h.d.RunOnce(c.UserContext())
	return c.Status(fiber.StatusOK).JSON(report)
}
