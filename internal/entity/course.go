package entity

import "strings"

// NotAvailable is the sentinel stored in optional text fields a source does not expose.
const NotAvailable = "N/A"

// PlaceholderImage is used when no thumbnail could be extracted for a course.
const PlaceholderImage = "https://placehold.co/600x400?text=Free+Course"

// Course is the normalized listing every source adapter produces.
// All fields are always present so lists from different sources can be concatenated as-is.
type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Detail   string `json:"detail"`
	Rating   string `json:"rating"`
	Category string `json:"category"`
	Link     string `json:"link"`
	Image    string `json:"image"`
}

// Normalize trims every field and replaces empty optional values with sentinels.
func (c *Course) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Link = strings.TrimSpace(c.Link)
	c.Provider = orNotAvailable(c.Provider)
	c.Detail = orNotAvailable(c.Detail)
	c.Rating = orNotAvailable(c.Rating)
	c.Category = orNotAvailable(c.Category)
	c.Image = strings.TrimSpace(c.Image)
	if c.Image == "" {
		c.Image = PlaceholderImage
	}
}

// Valid reports whether the course carries the fields required for emission.
func (c Course) Valid() bool {
	return strings.TrimSpace(c.Title) != "" && strings.TrimSpace(c.Link) != ""
}

func orNotAvailable(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}
