package service

import (
	"math/rand"
	"strings"

	"github.com/maheshrc27/postpilot/internal/models"
)

// DefaultCharLimit applies to platforms without an entry in the limit table.
const DefaultCharLimit = 2000

const defaultHashtagCount = 5

// DefaultCharLimits returns a fresh copy of the per-platform content limits.
func DefaultCharLimits() map[models.Platform]int {
	return map[models.Platform]int{
		models.PlatformFacebook: 2200,
		models.PlatformTwitter:  280,
		models.PlatformLinkedIn: 3000,
		models.PlatformTikTok:   150,
		models.PlatformSnapchat: 100,
	}
}

var defaultKeywords = []string{"socialmedia", "marketing", "tech", "business", "innovation"}

var sampleCaptions = []string{
	"Elevate your social presence with cutting-edge content! 💡",
	"Where innovation meets social engagement 🚀",
	"Crafting digital experiences that matter 🌐",
}

// HashtagSuggester ranks hashtags for a piece of text.
type HashtagSuggester interface {
	SuggestHashtags(text string, n int) []string
}

// keywordSuggester is a placeholder ranking: it returns the first n entries
// of a fixed keyword list and ignores the text entirely. A relevance-based
// ranker can replace it behind HashtagSuggester.
type keywordSuggester struct {
	keywords []string
}

func NewKeywordSuggester(keywords []string) HashtagSuggester {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	return &keywordSuggester{keywords: append([]string(nil), keywords...)}
}

func (s *keywordSuggester) SuggestHashtags(_ string, n int) []string {
	if n > len(s.keywords) {
		n = len(s.keywords)
	}
	tags := make([]string, 0, n)
	for _, kw := range s.keywords[:max(n, 0)] {
		tags = append(tags, "#"+kw)
	}
	return tags
}

type ContentFormatter interface {
	Format(platform models.Platform, rawText string) string
	Limit(platform models.Platform) int
	SuggestHashtags(text string, n int) []string
	OptimizeHashtags(text string) string
	SuggestCaption() string
}

type contentFormatter struct {
	limits   map[models.Platform]int
	hashtags HashtagSuggester
}

func NewContentFormatter(limits map[models.Platform]int, hashtags HashtagSuggester) ContentFormatter {
	copied := make(map[models.Platform]int, len(limits))
	for p, l := range limits {
		copied[p] = l
	}
	if hashtags == nil {
		hashtags = NewKeywordSuggester(nil)
	}
	return &contentFormatter{limits: copied, hashtags: hashtags}
}

func (f *contentFormatter) Limit(platform models.Platform) int {
	if l, ok := f.limits[platform]; ok {
		return l
	}
	return DefaultCharLimit
}

// Format cuts rawText to the platform limit (in characters, not words) and
// appends a space plus the suggested hashtags.
func (f *contentFormatter) Format(platform models.Platform, rawText string) string {
	text := truncateRunes(rawText, f.Limit(platform))

	tags := f.hashtags.SuggestHashtags(rawText, defaultHashtagCount)
	if len(tags) == 0 {
		return text
	}
	return text + " " + strings.Join(tags, " ")
}

func (f *contentFormatter) SuggestHashtags(text string, n int) []string {
	if n <= 0 {
		n = defaultHashtagCount
	}
	return f.hashtags.SuggestHashtags(text, n)
}

// OptimizeHashtags appends the suggested tags on their own paragraph unless
// the text already carries one of them.
func (f *contentFormatter) OptimizeHashtags(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	tags := f.hashtags.SuggestHashtags(text, defaultHashtagCount)
	for _, tag := range tags {
		if strings.Contains(text, tag) {
			return text
		}
	}
	if len(tags) == 0 {
		return text
	}
	return text + "\n\n" + strings.Join(tags, " ")
}

func (f *contentFormatter) SuggestCaption() string {
	return sampleCaptions[rand.Intn(len(sampleCaptions))]
}

func truncateRunes(s string, limit int) string {
	if limit < 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
