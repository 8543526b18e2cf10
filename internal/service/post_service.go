package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

var (
	ErrUnknownPlatform     = errors.New("unknown platform")
	ErrInvalidScheduleTime = errors.New("invalid schedule time")
)

// scheduleLayouts are tried in order; layouts without an offset are read in
// the configured time zone.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

var exportHeader = []string{"id", "platform", "content", "media", "scheduled_time", "status", "reason"}

type PostService interface {
	Schedule(req *transfer.PostCreation) (models.Post, error)
	List() []models.Post
	Get(id string) (models.Post, error)
	PostsForMonth(year int, month time.Month) []models.Post
	CalendarCounts(year int, month time.Month) map[int]int
	ExportCSV(w io.Writer) error
}

type postService struct {
	queue     repository.PostQueue
	formatter ContentFormatter
	resolver  MediaResolver
	location  *time.Location
}

func NewPostService(queue repository.PostQueue, formatter ContentFormatter, resolver MediaResolver, location *time.Location) PostService {
	if location == nil {
		location = time.UTC
	}
	return &postService{
		queue:     queue,
		formatter: formatter,
		resolver:  resolver,
		location:  location,
	}
}

func (s *postService) Schedule(req *transfer.PostCreation) (models.Post, error) {
	platform, ok := models.ParsePlatform(strings.TrimSpace(req.Platform))
	if !ok {
		return models.Post{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, req.Platform)
	}

	var scheduledTime *time.Time
	if strings.TrimSpace(req.ScheduledTime) != "" {
		t, err := s.parseScheduleTime(req.ScheduledTime)
		if err != nil {
			return models.Post{}, err
		}
		scheduledTime = &t
	}

	content := s.formatter.Format(platform, req.Content)

	var media *models.Attachment
	if req.MediaPath != "" {
		att, ok := s.resolver.Resolve(platform, req.MediaPath)
		if ok {
			media = att
		} else {
			slog.Info("media not attached", "platform", platform, "path", req.MediaPath)
		}
	}

	post := s.queue.Enqueue(platform, content, media, scheduledTime)
	slog.Info("post scheduled", "post_id", post.ID, "platform", post.Platform, "scheduled_time", post.ScheduledTime)
	return post, nil
}

func (s *postService) parseScheduleTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range scheduleLayouts {
		t, err := time.ParseInLocation(layout, value, s.location)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidScheduleTime, value)
}

func (s *postService) List() []models.Post {
	return s.queue.List()
}

func (s *postService) Get(id string) (models.Post, error) {
	post, ok := s.queue.Get(id)
	if !ok {
		return models.Post{}, repository.ErrPostNotFound
	}
	return post, nil
}

// PostsForMonth matches months in the configured time zone.
func (s *postService) PostsForMonth(year int, month time.Month) []models.Post {
	return s.queue.PostsForMonthIn(year, month, s.location)
}

// CalendarCounts maps day of month, in the configured time zone, to the
// number of posts scheduled that day.
func (s *postService) CalendarCounts(year int, month time.Month) map[int]int {
	counts := make(map[int]int)
	for _, p := range s.queue.PostsForMonthIn(year, month, s.location) {
		counts[p.ScheduledTime.In(s.location).Day()]++
	}
	return counts
}

func (s *postService) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, p := range s.queue.List() {
		record := []string{
			p.ID,
			string(p.Platform),
			p.Content,
			p.MediaPath(),
			p.ScheduledTime.Format(time.RFC3339),
			p.StatusText(),
			p.FailureReason,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing csv record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
