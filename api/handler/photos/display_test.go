package photos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/internal/unsplash"
)

func TestFromUpstream_DescriptionFallback(t *testing.T) {
	photo := &unsplash.Photo{
		ID:             "p1",
		AltDescription: "alt only",
		URLs:           unsplash.PhotoURLs{Regular: "r", Small: "s"},
	}

	dp := fromUpstream(photo)
	assert.Equal(t, SourceUpstream, dp.Source)
	assert.Equal(t, "alt only", dp.Description)
	assert.Equal(t, "alt only", dp.AltText)
}

func TestFromUpstream_AltTextDefault(t *testing.T) {
	dp := fromUpstream(&unsplash.Photo{ID: "p1"})
	assert.Equal(t, "Photo", dp.AltText)
}

func TestFromSaved(t *testing.T) {
	img := &models.Image{
		ID:          "p1",
		Width:       800,
		Height:      600,
		URLRegular:  "https://img/r",
		URLSmall:    "https://img/s",
		Description: "saved photo",
	}

	dp := fromSaved(img)
	assert.Equal(t, SourceSaved, dp.Source)
	assert.Equal(t, "p1", dp.ID)
	assert.Equal(t, "saved photo", dp.AltText)
}

func TestResolveDisplayURL(t *testing.T) {
	assert.Equal(t, "r", DisplayPhoto{URLRegular: "r", URLSmall: "s"}.ResolveDisplayURL())
	assert.Equal(t, "s", DisplayPhoto{URLSmall: "s"}.ResolveDisplayURL())
}
