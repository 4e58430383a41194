package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/pkg/metrics"
)

const LifeName = "life"

// Life reads the JSON catalog of the Life learning portal.
type Life struct {
	deps       Deps
	catalogURL string
}

func NewLife(deps Deps, catalogURL string) (*Life, error) {
	u, err := url.Parse(catalogURL)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("invalid life catalog url %q", catalogURL)
	}
	return &Life{deps: deps, catalogURL: u.String()}, nil
}

func (l *Life) Name() string { return LifeName }

type lifeCatalog struct {
	Courses []json.RawMessage `json:"courses"`
}

type lifeCourse struct {
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Summary      string     `json:"summary"`
	Rating       flexString `json:"rating"`
	Topic        string     `json:"topic"`
	URL          string     `json:"url"`
	Thumbnail    string     `json:"thumbnail"`
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("rating: %w", err)
		}
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

func (l *Life) Scrape(ctx context.Context) []entity.Course {
	body, ok := l.deps.fetch(ctx, l.catalogURL)
	if !ok {
		l.deps.Logger.Warn("No data from page", zap.String("source", LifeName), zap.String("url", l.catalogURL))
		return nil
	}
	courses := l.parse(body)
	l.deps.Logger.Info("Scraped source", zap.String("source", LifeName), zap.Int("courses", len(courses)))
	return courses
}

func (l *Life) parse(body []byte) []entity.Course {
	var catalog lifeCatalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		l.deps.Logger.Error("Failed to decode catalog", zap.String("source", LifeName), zap.Error(err))
		return nil
	}
	base, _ := url.Parse(l.catalogURL)

	courses := make([]entity.Course, 0, len(catalog.Courses))
	for i, raw := range catalog.Courses {
		c, err := l.course(i, raw, base)
		if err != nil {
			metrics.ItemsSkippedTotal.WithLabelValues(LifeName).Inc()
			l.deps.Logger.Debug("Skipping listing item", zap.String("source", LifeName), zap.Error(err))
			continue
		}
		c.ID = uuid.NewString()
		courses = append(courses, c)
	}
	return courses
}

func (l *Life) course(i int, raw json.RawMessage, base *url.URL) (entity.Course, error) {
	var item lifeCourse
	if err := json.Unmarshal(raw, &item); err != nil {
		return entity.Course{}, &ParseError{Source: LifeName, Index: i, Err: err}
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return entity.Course{}, missing(LifeName, i, "title")
	}
	link, ok := resolve(base, item.URL)
	if !ok {
		return entity.Course{}, missing(LifeName, i, "link")
	}

	provider := "Life"
	if org := strings.TrimSpace(item.Organization); org != "" {
		provider += " / " + org
	}
	var image string
	if usableImage(item.Thumbnail) {
		image, _ = resolve(base, item.Thumbnail)
	}

	c := entity.Course{
		Title:    title,
		Provider: provider,
		Detail:   item.Summary,
		Rating:   string(item.Rating),
		Category: item.Topic,
		Link:     link,
		Image:    image,
	}
	c.Normalize()
	return c, nil
}
