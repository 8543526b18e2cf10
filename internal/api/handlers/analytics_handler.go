package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const suggestedHashtags = 5

type AnalyticsHandler struct {
	sentiment service.SentimentService
	formatter service.ContentFormatter
}

func NewAnalyticsHandler(sentiment service.SentimentService, formatter service.ContentFormatter) *AnalyticsHandler {
	return &AnalyticsHandler{sentiment: sentiment, formatter: formatter}
}

func (h *AnalyticsHandler) Sentiment(c *fiber.Ctx) error {
	var req transfer.SentimentRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	resp := transfer.SentimentResponse{
		Results: make([]transfer.SentimentResult, 0, len(req.Texts)),
		Summary: make(map[string]int),
	}
	for _, text := range req.Texts {
		label := h.sentiment.Classify(text)
		resp.Results = append(resp.Results, transfer.SentimentResult{Text: text, Sentiment: string(label)})
	}
	for label, n := range h.sentiment.Summarize(req.Texts) {
		resp.Summary[string(label)] = n
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AnalyticsHandler) OptimizeHashtags(c *fiber.Ctx) error {
	var req transfer.HashtagRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Text is required")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"text":     h.formatter.OptimizeHashtags(req.Text),
		"hashtags": h.formatter.SuggestHashtags(req.Text, suggestedHashtags),
	})
}

func (h *AnalyticsHandler) SuggestCaption(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"caption": h.formatter.SuggestCaption(),
	})
}
