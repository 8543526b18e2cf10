package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrAlreadyTerminal = errors.New("post already in a terminal state")
)

// PostQueue is the in-process store of scheduled posts. Reads return copies;
// only status transitions mutate a stored post.
type PostQueue interface {
	Enqueue(platform models.Platform, content string, media *models.Attachment, scheduledTime *time.Time) models.Post
	Get(id string) (models.Post, bool)
	List() []models.Post
	PostsForMonth(year int, month time.Month) []models.Post
	PostsForMonthIn(year int, month time.Month, loc *time.Location) []models.Post
	ClaimDue(now time.Time) []models.Post
	MarkPublished(id, externalID string) (models.Post, error)
	MarkFailed(id, reason string) (models.Post, error)
}

type queuedPost struct {
	post     models.Post
	inFlight bool
}

type postQueue struct {
	mu    sync.RWMutex
	posts []*queuedPost
	byID  map[string]*queuedPost
	now   func() time.Time
}

func NewPostQueue(now func() time.Time) PostQueue {
	if now == nil {
		now = time.Now
	}
	return &postQueue{
		byID: make(map[string]*queuedPost),
		now:  now,
	}
}

func (q *postQueue) Enqueue(platform models.Platform, content string, media *models.Attachment, scheduledTime *time.Time) models.Post {
	createdAt := q.now().UTC()
	at := createdAt
	if scheduledTime != nil {
		at = scheduledTime.UTC()
	}

	post := models.Post{
		ID:            gonanoid.Must(),
		Platform:      platform,
		Content:       content,
		Media:         media,
		ScheduledTime: at,
		Status:        models.PostStatusQueued,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	q.mu.Lock()
	entry := &queuedPost{post: post}
	q.posts = append(q.posts, entry)
	q.byID[post.ID] = entry
	q.mu.Unlock()

	slog.Info("post queued", "post_id", post.ID, "platform", platform, "scheduled_time", at)
	return post
}

func (q *postQueue) Get(id string) (models.Post, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entry, ok := q.byID[id]
	if !ok {
		return models.Post{}, false
	}
	return entry.post, true
}

func (q *postQueue) List() []models.Post {
	q.mu.RLock()
	defer q.mu.RUnlock()

	posts := make([]models.Post, 0, len(q.posts))
	for _, entry := range q.posts {
		posts = append(posts, entry.post)
	}
	return posts
}

func (q *postQueue) PostsForMonth(year int, month time.Month) []models.Post {
	return q.PostsForMonthIn(year, month, time.UTC)
}

// PostsForMonthIn matches the scheduled time's calendar month in loc.
func (q *postQueue) PostsForMonthIn(year int, month time.Month, loc *time.Location) []models.Post {
	if loc == nil {
		loc = time.UTC
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	posts := make([]models.Post, 0)
	for _, entry := range q.posts {
		y, m, _ := entry.post.ScheduledTime.In(loc).Date()
		if y == year && m == month {
			posts = append(posts, entry.post)
		}
	}
	return posts
}

// ClaimDue returns every queued post scheduled at or before now and marks it
// in flight, so a post is handed out once until its terminal transition.
func (q *postQueue) ClaimDue(now time.Time) []models.Post {
	now = now.UTC()

	q.mu.Lock()
	defer q.mu.Unlock()

	var due []models.Post
	for _, entry := range q.posts {
		if entry.inFlight || !entry.post.IsDue(now) {
			continue
		}
		entry.inFlight = true
		due = append(due, entry.post)
	}
	return due
}

func (q *postQueue) MarkPublished(id, externalID string) (models.Post, error) {
	return q.transition(id, func(p *models.Post) {
		p.Status = models.PostStatusPublished
		p.ExternalID = externalID
	})
}

func (q *postQueue) MarkFailed(id, reason string) (models.Post, error) {
	return q.transition(id, func(p *models.Post) {
		p.Status = models.PostStatusFailed
		p.FailureReason = reason
	})
}

func (q *postQueue) transition(id string, apply func(p *models.Post)) (models.Post, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.byID[id]
	if !ok {
		return models.Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}
	if entry.post.IsTerminal() {
		err := fmt.Errorf("%w: post %s is %s", ErrAlreadyTerminal, id, entry.post.Status)
		slog.Error(err.Error())
		return entry.post, err
	}

	apply(&entry.post)
	entry.post.UpdatedAt = q.now().UTC()
	entry.inFlight = false
	return entry.post, nil
}
