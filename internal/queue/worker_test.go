package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	platform models.Platform
	calls    atomic.Int32
	publish  func(ctx context.Context, post models.Post) (service.PublishResult, error)
}

func (c *stubClient) Platform() models.Platform { return c.platform }

func (c *stubClient) Publish(ctx context.Context, post models.Post) (service.PublishResult, error) {
	c.calls.Add(1)
	if c.publish != nil {
		return c.publish(ctx, post)
	}
	return service.PublishResult{ExternalID: "ext-" + post.ID}, nil
}

type memoryRecorder struct {
	mu    sync.Mutex
	posts []models.Post
}

func (r *memoryRecorder) Record(ctx context.Context, post models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post)
	return nil
}

var dispatchNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := dispatchNow.Add(offset)
	return &t
}

func newTestDispatcher(q repository.PostQueue, opts Options, clients ...service.PlatformClient) (*Dispatcher, *memoryRecorder) {
	if opts.Now == nil {
		opts.Now = func() time.Time { return dispatchNow }
	}
	rec := &memoryRecorder{}
	return NewDispatcher(q, service.NewPublisherRegistry(clients...), opts, rec), rec
}

func TestDispatchWithoutClientFails(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformTwitter, strings.Repeat("a", 300), nil, at(-time.Minute))
	d, rec := newTestDispatcher(q, Options{})

	report := d.RunOnce(context.Background())

	assert.Equal(t, 1, report.Due)
	assert.Equal(t, 1, report.Failed)
	got, _ := q.Get(post.ID)
	assert.Equal(t, models.PostStatusFailed, got.Status)
	assert.Equal(t, "client not configured", got.FailureReason)
	assert.Equal(t, "Failed: client not configured", got.StatusText())
	require.Len(t, rec.posts, 1)
	assert.Equal(t, post.ID, rec.posts[0].ID)
}

func TestDispatchFuturePostStaysQueued(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformFacebook, "later", nil, at(time.Hour))
	client := &stubClient{platform: models.PlatformFacebook}
	d, _ := newTestDispatcher(q, Options{}, client)

	report := d.RunOnce(context.Background())

	assert.Zero(t, report.Due)
	assert.Zero(t, client.calls.Load())
	got, _ := q.Get(post.ID)
	assert.Equal(t, models.PostStatusQueued, got.Status)
}

func TestDispatchPublishesDuePosts(t *testing.T) {
	q := repository.NewPostQueue(nil)
	first := q.Enqueue(models.PlatformFacebook, "one", nil, at(-2*time.Hour))
	second := q.Enqueue(models.PlatformFacebook, "two", nil, at(0))
	client := &stubClient{platform: models.PlatformFacebook}
	d, rec := newTestDispatcher(q, Options{}, client)

	report := d.RunOnce(context.Background())

	assert.Equal(t, 2, report.Published)
	for _, id := range []string{first.ID, second.ID} {
		got, _ := q.Get(id)
		assert.Equal(t, models.PostStatusPublished, got.Status)
		assert.Equal(t, "ext-"+id, got.ExternalID)
	}
	assert.Len(t, rec.posts, 2)

	report = d.RunOnce(context.Background())
	assert.Zero(t, report.Due)
	assert.EqualValues(t, 2, client.calls.Load())
}

func TestDispatchRecordsPublishError(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformLinkedIn, "text", nil, at(-time.Second))
	client := &stubClient{
		platform: models.PlatformLinkedIn,
		publish: func(ctx context.Context, post models.Post) (service.PublishResult, error) {
			return service.PublishResult{}, errors.New("LinkedIn API returned status 401: expired token")
		},
	}
	d, _ := newTestDispatcher(q, Options{}, client)

	d.RunOnce(context.Background())

	got, _ := q.Get(post.ID)
	assert.Equal(t, models.PostStatusFailed, got.Status)
	assert.Equal(t, "LinkedIn API returned status 401: expired token", got.FailureReason)

	// No retry on the next cycle.
	d.RunOnce(context.Background())
	assert.EqualValues(t, 1, client.calls.Load())
}

func TestDispatchMaxLateness(t *testing.T) {
	q := repository.NewPostQueue(nil)
	late := q.Enqueue(models.PlatformFacebook, "late", nil, at(-time.Hour))
	onTime := q.Enqueue(models.PlatformFacebook, "on time", nil, at(-time.Minute))
	client := &stubClient{platform: models.PlatformFacebook}
	d, _ := newTestDispatcher(q, Options{MaxLateness: 10 * time.Minute}, client)

	report := d.RunOnce(context.Background())

	assert.Equal(t, 1, report.Published)
	assert.Equal(t, 1, report.Failed)
	got, _ := q.Get(late.ID)
	assert.Equal(t, MissedWindowReason, got.FailureReason)
	got, _ = q.Get(onTime.ID)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	assert.EqualValues(t, 1, client.calls.Load())
}

func TestDispatchPublishTimeout(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformTikTok, "slow", nil, at(0))
	client := &stubClient{
		platform: models.PlatformTikTok,
		publish: func(ctx context.Context, post models.Post) (service.PublishResult, error) {
			<-ctx.Done()
			return service.PublishResult{}, ctx.Err()
		},
	}
	d, _ := newTestDispatcher(q, Options{PublishTimeout: 20 * time.Millisecond}, client)

	d.RunOnce(context.Background())

	got, _ := q.Get(post.ID)
	assert.Equal(t, models.PostStatusFailed, got.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), got.FailureReason)
}

func TestDispatchRecoversPanickingClient(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformSnapchat, "boom", nil, at(0))
	client := &stubClient{
		platform: models.PlatformSnapchat,
		publish: func(ctx context.Context, post models.Post) (service.PublishResult, error) {
			panic("nil map")
		},
	}
	d, _ := newTestDispatcher(q, Options{}, client)

	d.RunOnce(context.Background())

	got, _ := q.Get(post.ID)
	assert.Equal(t, "publish panicked: nil map", got.FailureReason)
}

func TestDispatchFinishesAfterCancel(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformFacebook, "in flight", nil, at(0))
	ctx, cancel := context.WithCancel(context.Background())
	client := &stubClient{
		platform: models.PlatformFacebook,
		publish: func(pctx context.Context, post models.Post) (service.PublishResult, error) {
			cancel()
			time.Sleep(10 * time.Millisecond)
			if err := pctx.Err(); err != nil {
				return service.PublishResult{}, err
			}
			return service.PublishResult{ExternalID: "done"}, nil
		},
	}
	d, _ := newTestDispatcher(q, Options{}, client)

	d.RunOnce(ctx)

	got, _ := q.Get(post.ID)
	assert.Equal(t, models.PostStatusPublished, got.Status)
}

func TestDispatchCyclesDoNotOverlap(t *testing.T) {
	q := repository.NewPostQueue(nil)
	for i := 0; i < 20; i++ {
		q.Enqueue(models.PlatformFacebook, "post", nil, at(0))
	}
	client := &stubClient{
		platform: models.PlatformFacebook,
		publish: func(ctx context.Context, post models.Post) (service.PublishResult, error) {
			time.Sleep(time.Millisecond)
			return service.PublishResult{ExternalID: post.ID}, nil
		},
	}
	d, _ := newTestDispatcher(q, Options{Concurrency: 4}, client)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.RunOnce(context.Background())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 20, client.calls.Load())
	for _, p := range q.List() {
		assert.Equal(t, models.PostStatusPublished, p.Status)
	}
}

func TestRunDispatchesImmediatelyAndStops(t *testing.T) {
	q := repository.NewPostQueue(nil)
	post := q.Enqueue(models.PlatformFacebook, "now", nil, at(0))
	client := &stubClient{platform: models.PlatformFacebook}
	d, _ := newTestDispatcher(q, Options{Interval: time.Hour}, client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		got, _ := q.Get(post.ID)
		return got.Status == models.PostStatusPublished
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDefaultOptions(t *testing.T) {
	d := NewDispatcher(repository.NewPostQueue(nil), service.NewPublisherRegistry(), Options{})

	assert.Equal(t, DefaultInterval, d.opts.Interval)
	assert.Equal(t, DefaultPublishTimeout, d.opts.PublishTimeout)
	assert.Equal(t, DefaultConcurrency, d.opts.Concurrency)
	assert.Zero(t, d.opts.MaxLateness)
}
