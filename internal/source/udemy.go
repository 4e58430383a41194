package source

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/pkg/utils"
)

const (
	UdemyName = "udemy"

	// UdemyWaitSelector is the element the browser waits for before capturing the page.
	UdemyWaitSelector = `div[class*="course-list_container"]`
)

var udemyBase = utils.MustParseURL("https://www.udemy.com")

// Udemy scrapes the free course listing. The listing is rendered client-side,
// so the adapter must be given a browser-backed fetcher.
type Udemy struct {
	deps Deps
	base *url.URL
}

func NewUdemy(deps Deps) *Udemy {
	return &Udemy{deps: deps, base: udemyBase}
}

func (u *Udemy) Name() string { return UdemyName }

func (u *Udemy) Scrape(ctx context.Context) []entity.Course {
	doc, ok := u.deps.document(ctx, UdemyName, u.base.String()+"/courses/free/")
	if !ok {
		return nil
	}
	courses := u.parse(doc)
	u.deps.Logger.Info("Scraped source", zap.String("source", UdemyName), zap.Int("courses", len(courses)))
	return courses
}

func (u *Udemy) parse(doc *goquery.Document) []entity.Course {
	cards := doc.Find(`div[class*="course-card-module--container"]`)
	return extractItems(u.deps.Logger, UdemyName, cards, func(i int, card *goquery.Selection) (entity.Course, error) {
		anchor := card.Find(`h3[data-purpose="course-title-url"] a`)
		title := text(anchor)
		if title == "" {
			return entity.Course{}, missing(UdemyName, i, "title")
		}
		ref, ok := href(anchor)
		if !ok {
			return entity.Course{}, missing(UdemyName, i, "link")
		}
		link, ok := resolve(u.base, ref)
		if !ok {
			return entity.Course{}, missing(UdemyName, i, "link")
		}

		provider := "udemy"
		if instructors := text(card.Find(`[data-purpose="safely-set-inner-html:course-card:visible-instructors"]`)); instructors != "" {
			provider += " / " + instructors
		}

		return entity.Course{
			Title:    title,
			Provider: provider,
			Detail:   text(card.Find(`[data-purpose="safely-set-inner-html:course-card:course-headline"]`)),
			Rating:   text(card.Find(`[data-purpose="rating-number"]`)),
			Category: text(card.Find(`[data-purpose="course-meta-info"]`)),
			Link:     link,
			Image:    imageURL(card, u.base),
		}, nil
	})
}
