package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hashtagSuffix = "#socialmedia #marketing #tech #business #innovation"

func TestFormatLimits(t *testing.T) {
	f := NewContentFormatter(DefaultCharLimits(), nil)

	cases := map[models.Platform]int{
		models.PlatformFacebook:     2200,
		models.PlatformTwitter:      280,
		models.PlatformLinkedIn:     3000,
		models.PlatformTikTok:       150,
		models.PlatformSnapchat:     100,
		models.PlatformInstagram:    2000,
		models.Platform("Mastodon"): 2000,
	}

	for platform, limit := range cases {
		t.Run(string(platform), func(t *testing.T) {
			assert.Equal(t, limit, f.Limit(platform))

			raw := strings.Repeat("a", limit+500)
			out := f.Format(platform, raw)

			body, suffix, found := strings.Cut(out, " ")
			require.True(t, found)
			assert.Equal(t, limit, utf8.RuneCountInString(body))
			assert.Equal(t, hashtagSuffix, suffix)
			assert.LessOrEqual(t, utf8.RuneCountInString(out), limit+1+len(hashtagSuffix))
		})
	}
}

func TestFormatShortTextUntouched(t *testing.T) {
	f := NewContentFormatter(DefaultCharLimits(), nil)

	assert.Equal(t, "launch day "+hashtagSuffix, f.Format(models.PlatformTwitter, "launch day"))
}

func TestFormatCutsCharactersNotBytes(t *testing.T) {
	f := NewContentFormatter(map[models.Platform]int{models.PlatformSnapchat: 3}, nil)

	out := f.Format(models.PlatformSnapchat, "héllo")

	assert.True(t, strings.HasPrefix(out, "hél "))
	assert.True(t, utf8.ValidString(out))
}

func TestFormatterLimitsAreCopied(t *testing.T) {
	limits := DefaultCharLimits()
	f := NewContentFormatter(limits, nil)

	limits[models.PlatformTwitter] = 5

	assert.Equal(t, 280, f.Limit(models.PlatformTwitter))
}

func TestSuggestHashtags(t *testing.T) {
	s := NewKeywordSuggester(nil)

	assert.Equal(t, []string{"#socialmedia", "#marketing"}, s.SuggestHashtags("anything", 2))
	assert.Len(t, s.SuggestHashtags("anything", 50), 5)
	assert.Empty(t, s.SuggestHashtags("anything", 0))
}

func TestOptimizeHashtags(t *testing.T) {
	f := NewContentFormatter(DefaultCharLimits(), nil)

	assert.Equal(t, "new post\n\n"+hashtagSuffix, f.OptimizeHashtags("  new post \n"))
	assert.Equal(t, "already #tech tagged", f.OptimizeHashtags("already #tech tagged"))
	assert.Equal(t, "", f.OptimizeHashtags("   "))
}

func TestSuggestCaption(t *testing.T) {
	f := NewContentFormatter(DefaultCharLimits(), nil)

	assert.Contains(t, sampleCaptions, f.SuggestCaption())
}
