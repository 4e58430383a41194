package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseNormalizeFillsSentinels(t *testing.T) {
	c := Course{Title: "  Intro to Go ", Link: "https://example.com/go", Detail: "   "}
	c.Normalize()

	assert.Equal(t, "Intro to Go", c.Title)
	assert.Equal(t, NotAvailable, c.Provider)
	assert.Equal(t, NotAvailable, c.Detail)
	assert.Equal(t, NotAvailable, c.Rating)
	assert.Equal(t, NotAvailable, c.Category)
	assert.Equal(t, PlaceholderImage, c.Image)
}

func TestCourseValid(t *testing.T) {
	assert.True(t, Course{Title: "a", Link: "https://x"}.Valid())
	assert.False(t, Course{Title: "a"}.Valid())
	assert.False(t, Course{Link: "https://x"}.Valid())
	assert.False(t, Course{Title: " ", Link: "https://x"}.Valid())
}
