// Package source holds one adapter per upstream catalog. Each adapter maps its
// site's markup onto entity.Course and isolates failures: a broken page or item
// shortens the result, it never aborts the scrape.
package source

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
	"github.com/user/course-aggregator/pkg/metrics"
)

// Source scrapes one catalog site. Scrape never panics and never fails: a
// total failure is an empty slice.
type Source interface {
	Name() string
	Scrape(ctx context.Context) []entity.Course
}

// Deps are the collaborators shared by every adapter.
type Deps struct {
	Fetcher repository.Fetcher
	Timeout time.Duration
	Logger  *zap.Logger
}

// ParseError reports a listing item that does not have the expected structure.
type ParseError struct {
	Source string
	Index  int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s item %d: missing %s", e.Source, e.Index, e.Field)
	}
	return fmt.Sprintf("%s item %d: %v", e.Source, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func missing(source string, index int, field string) error {
	return &ParseError{Source: source, Index: index, Field: field}
}

// fetch retrieves a URL and returns its body. Failures are already logged by the fetcher.
func (d Deps) fetch(ctx context.Context, url string) ([]byte, bool) {
	doc, err := d.Fetcher.Fetch(ctx, url, d.Timeout)
	if err != nil {
		return nil, false
	}
	return doc.Body, true
}

// document fetches url and parses it as HTML.
func (d Deps) document(ctx context.Context, source, url string) (*goquery.Document, bool) {
	body, ok := d.fetch(ctx, url)
	if !ok {
		d.Logger.Warn("No data from page", zap.String("source", source), zap.String("url", url))
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		d.Logger.Error("Failed to parse page", zap.String("source", source), zap.String("url", url), zap.Error(err))
		return nil, false
	}
	return doc, true
}

type itemExtractor func(i int, item *goquery.Selection) (entity.Course, error)

// extractItems runs extract over every container. Items that fail or panic are
// skipped individually; the survivors get a fresh id and sentinel-filled fields.
func extractItems(logger *zap.Logger, source string, items *goquery.Selection, extract itemExtractor) []entity.Course {
	courses := make([]entity.Course, 0, items.Length())
	items.Each(func(i int, item *goquery.Selection) {
		c, err := safeExtract(source, i, item, extract)
		if err == nil {
			c.Normalize()
			if !c.Valid() {
				err = missing(source, i, "title or link")
			}
		}
		if err != nil {
			metrics.ItemsSkippedTotal.WithLabelValues(source).Inc()
			logger.Debug("Skipping listing item", zap.String("source", source), zap.Error(err))
			return
		}
		c.ID = uuid.NewString()
		courses = append(courses, c)
	})
	return courses
}

func safeExtract(source string, i int, item *goquery.Selection, extract itemExtractor) (c entity.Course, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ParseError{Source: source, Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return extract(i, item)
}
