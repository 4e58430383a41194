package source

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/course-aggregator/internal/entity"
)

func TestCourseraParsesFixture(t *testing.T) {
	c := NewCoursera(testDeps(t, nil), 1, 1)
	courses := c.parse(mustDoc(t, string(fixture(t, "coursera.html"))))

	require.Len(t, courses, 2, "items without partner or link are skipped")
	got := byTitle(courses)

	ml := got["Machine Learning"]
	assert.Equal(t, "coursera / Stanford University", ml.Provider)
	assert.Equal(t, "Stanford University", ml.Category)
	assert.Equal(t, "Skills you'll gain: Regression, Classification", ml.Detail)
	assert.Equal(t, "4.9", ml.Rating)
	assert.Equal(t, "https://www.coursera.org/learn/machine-learning", ml.Link)
	assert.Equal(t, "https://coursera-course-photos.s3.amazonaws.com/ml.png?auto=format", ml.Image)

	gda := got["Google Data Analytics"]
	assert.Equal(t, entity.NotAvailable, gda.Detail)
	assert.Equal(t, entity.NotAvailable, gda.Rating)
	assert.Equal(t, entity.PlaceholderImage, gda.Image)
	assert.NotEmpty(t, gda.ID)
}

func TestCourseraFetchesEveryPage(t *testing.T) {
	f := newFakeFetcher()
	c := NewCoursera(testDeps(t, f), 4, 2)
	body := fixture(t, "coursera.html")
	f.serve(c.pageURL(1), body).serve(c.pageURL(3), body)

	courses := c.Scrape(context.Background())

	assert.Equal(t, 4, f.callCount())
	assert.Len(t, courses, 4, "two pages succeed, two fail")
	ids := make(map[string]bool)
	for _, course := range courses {
		assert.False(t, ids[course.ID], "duplicate id %s", course.ID)
		ids[course.ID] = true
	}
	for _, u := range f.calls {
		assert.True(t, strings.HasPrefix(u, "https://www.coursera.org/courses?query=free&page="), u)
	}
}
