package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/course-aggregator/internal/entity"
)

func TestUdacityScrape(t *testing.T) {
	f := newFakeFetcher().serve("https://www.classcentral.com/provider/udacity?free=true", fixture(t, "udacity.html"))
	courses := NewUdacity(testDeps(t, f)).Scrape(context.Background())

	require.Len(t, courses, 2)
	got := byTitle(courses)

	cs := got["Intro to Computer Science"]
	assert.Equal(t, "Udacity", cs.Provider)
	assert.Equal(t, "https://www.classcentral.com/course/udacity-intro-to-computer-science-1234", cs.Link)
	assert.Equal(t, "Learn key computer science concepts by building a search engine.", cs.Detail)
	assert.Equal(t, "4.6", cs.Rating)
	assert.Equal(t, "https://ccweb.imgix.net/cs.png?w=320", cs.Image)

	android := got["Android Basics"]
	assert.Equal(t, "4.0 out of 5 stars", android.Rating)
	assert.Equal(t, entity.NotAvailable, android.Detail)
	assert.Equal(t, entity.PlaceholderImage, android.Image)
}
