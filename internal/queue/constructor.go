package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postpilot/internal/models"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type statusNotifier struct {
	client taskEnqueuer
}

// NewStatusNotifier publishes every terminal transition as a post:status task.
func NewStatusNotifier(client *asynq.Client) StatusRecorder {
	return &statusNotifier{client: client}
}

func (n *statusNotifier) Record(ctx context.Context, post models.Post) error {
	payload := newPostStatusPayload(post)
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePostStatus, taskPayload)

	_, err = n.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return err
	}

	log.Printf("Status task enqueued: %+v", payload)
	return nil
}
