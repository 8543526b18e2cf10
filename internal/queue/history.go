package queue

import (
	"context"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
)

type historyRecorder struct {
	repo repository.PostingHistoryRepository
}

// NewHistoryRecorder stores each terminal transition as a posting_history row.
func NewHistoryRecorder(repo repository.PostingHistoryRepository) StatusRecorder {
	return &historyRecorder{repo: repo}
}

func (h *historyRecorder) Record(ctx context.Context, post models.Post) error {
	_, err := h.repo.Create(ctx, &models.PostingHistory{
		PostID:       post.ID,
		Platform:     string(post.Platform),
		Status:       string(post.Status),
		ExternalID:   post.ExternalID,
		ErrorMessage: post.FailureReason,
	})
	return err
}
