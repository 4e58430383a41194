package source

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/pkg/utils"
)

const WHOName = "who"

var openWHOBase = utils.MustParseURL("https://openwho.org")

// WHO scrapes the OpenWHO course catalog. All OpenWHO courses are free.
type WHO struct {
	deps Deps
	base *url.URL
}

func NewWHO(deps Deps) *WHO {
	return &WHO{deps: deps, base: openWHOBase}
}

func (w *WHO) Name() string { return WHOName }

func (w *WHO) Scrape(ctx context.Context) []entity.Course {
	doc, ok := w.deps.document(ctx, WHOName, w.base.String()+"/courses")
	if !ok {
		return nil
	}
	courses := w.parse(doc)
	w.deps.Logger.Info("Scraped source", zap.String("source", WHOName), zap.Int("courses", len(courses)))
	return courses
}

func (w *WHO) parse(doc *goquery.Document) []entity.Course {
	return extractItems(w.deps.Logger, WHOName, doc.Find("div.course-card"), func(i int, card *goquery.Selection) (entity.Course, error) {
		title := text(card.Find(".course-card__title"))
		if title == "" {
			return entity.Course{}, missing(WHOName, i, "title")
		}
		ref, ok := href(card.Find("a.course-card__title-link"))
		if !ok {
			ref, ok = href(card.Find("a[href]"))
		}
		if !ok {
			return entity.Course{}, missing(WHOName, i, "link")
		}
		link, ok := resolve(w.base, ref)
		if !ok {
			return entity.Course{}, missing(WHOName, i, "link")
		}

		provider := "WHO"
		if org := text(card.Find(".course-card__teacher")); org != "" {
			provider += " / " + org
		}

		return entity.Course{
			Title:    title,
			Provider: provider,
			Detail:   text(card.Find(".course-card__abstract")),
			Category: text(card.Find(".course-card__classifiers")),
			Link:     link,
			Image:    imageURL(card.Find(".course-card__image"), w.base),
		}, nil
	})
}
