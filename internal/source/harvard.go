package source

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/pkg/utils"
)

const HarvardName = "harvard"

var harvardBase = utils.MustParseURL("https://pll.harvard.edu")

// Harvard scrapes the free catalog of Harvard Online (pll.harvard.edu).
//
// The catalog renders course details and thumbnails in sibling blocks, so the
// two lists are paired by position.
type Harvard struct {
	deps Deps
	base *url.URL
}

func NewHarvard(deps Deps) *Harvard {
	return &Harvard{deps: deps, base: harvardBase}
}

func (h *Harvard) Name() string { return HarvardName }

func (h *Harvard) Scrape(ctx context.Context) []entity.Course {
	doc, ok := h.deps.document(ctx, HarvardName, h.base.String()+"/catalog/free")
	if !ok {
		return nil
	}
	courses := h.parse(doc)
	h.deps.Logger.Info("Scraped source", zap.String("source", HarvardName), zap.Int("courses", len(courses)))
	return courses
}

func (h *Harvard) parse(doc *goquery.Document) []entity.Course {
	images := doc.Find("div.node__content")
	return extractItems(h.deps.Logger, HarvardName, doc.Find("div.group-details"), func(i int, item *goquery.Selection) (entity.Course, error) {
		heading := item.Find("h3.field__item")
		title := text(heading)
		if title == "" {
			return entity.Course{}, missing(HarvardName, i, "title")
		}
		subject := text(item.Find("div.field--name-extra-field-pll-extra-field-subject"))
		if subject == "" {
			return entity.Course{}, missing(HarvardName, i, "subject")
		}
		ref, ok := href(heading.Find("a"))
		if !ok {
			return entity.Course{}, missing(HarvardName, i, "link")
		}
		link, ok := resolve(h.base, ref)
		if !ok {
			return entity.Course{}, missing(HarvardName, i, "link")
		}

		var image string
		if i < images.Length() {
			image = imageURL(images.Eq(i).Find("div.field__item a"), h.base)
		}

		return entity.Course{
			Title:    title,
			Provider: "Harvard",
			Category: subject,
			Link:     link,
			Image:    image,
		}, nil
	})
}
