package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func failedPost() models.Post {
	return models.Post{
		ID:            "abc",
		Platform:      models.PlatformTwitter,
		Status:        models.PostStatusFailed,
		FailureReason: "client not configured",
		UpdatedAt:     time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestStatusNotifierEnqueuesTask(t *testing.T) {
	client := &fakeEnqueuer{}
	n := &statusNotifier{client: client}

	require.NoError(t, n.Record(context.Background(), failedPost()))

	require.Len(t, client.tasks, 1)
	assert.Equal(t, TaskTypePostStatus, client.tasks[0].Type())

	var payload PostStatusPayload
	require.NoError(t, json.Unmarshal(client.tasks[0].Payload(), &payload))
	assert.Equal(t, "abc", payload.PostID)
	assert.Equal(t, "X (Twitter)", payload.Platform)
	assert.Equal(t, "Failed", payload.Status)
	assert.Equal(t, "client not configured", payload.Reason)
}

func TestStatusNotifierError(t *testing.T) {
	n := &statusNotifier{client: &fakeEnqueuer{err: errors.New("redis down")}}

	assert.EqualError(t, n.Record(context.Background(), failedPost()), "redis down")
}

func TestHandlePostStatusTask(t *testing.T) {
	data, err := json.Marshal(newPostStatusPayload(failedPost()))
	require.NoError(t, err)
	rec := &memoryRecorder{}

	err = HandlePostStatusTask(rec)(context.Background(), asynq.NewTask(TaskTypePostStatus, data))

	require.NoError(t, err)
	require.Len(t, rec.posts, 1)
	got, want := rec.posts[0], failedPost()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Platform, got.Platform)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.FailureReason, got.FailureReason)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
}

func TestHandlePostStatusTaskBadPayload(t *testing.T) {
	err := HandlePostStatusTask()(context.Background(), asynq.NewTask(TaskTypePostStatus, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}
