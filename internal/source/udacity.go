package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/pkg/utils"
)

const UdacityName = "udacity"

var classCentralBase = utils.MustParseURL("https://www.classcentral.com")

// Udacity scrapes free Udacity courses through the Class Central aggregator,
// which serves plain HTML where udacity.com does not.
type Udacity struct {
	deps Deps
	base *url.URL
}

func NewUdacity(deps Deps) *Udacity {
	return &Udacity{deps: deps, base: classCentralBase}
}

func (u *Udacity) Name() string { return UdacityName }

func (u *Udacity) Scrape(ctx context.Context) []entity.Course {
	doc, ok := u.deps.document(ctx, UdacityName, u.base.String()+"/provider/udacity?free=true")
	if !ok {
		return nil
	}
	courses := u.parse(doc)
	u.deps.Logger.Info("Scraped source", zap.String("source", UdacityName), zap.Int("courses", len(courses)))
	return courses
}

func (u *Udacity) parse(doc *goquery.Document) []entity.Course {
	return extractItems(u.deps.Logger, UdacityName, doc.Find("li.course-list-course"), func(i int, item *goquery.Selection) (entity.Course, error) {
		row := item.Find("div.row").First()
		title := text(row.Find("h2"))
		if title == "" {
			return entity.Course{}, missing(UdacityName, i, "title")
		}
		ref, ok := href(row.Find("a[href]"))
		if !ok {
			return entity.Course{}, missing(UdacityName, i, "link")
		}
		link, ok := resolve(u.base, ref)
		if !ok {
			return entity.Course{}, missing(UdacityName, i, "link")
		}

		return entity.Course{
			Title:    title,
			Provider: "Udacity",
			Detail:   text(item.Find("div").First().Find("p")),
			Rating:   classCentralRating(item),
			Category: "Class Central",
			Link:     link,
			Image:    imageURL(item, u.base),
		}, nil
	})
}

// classCentralRating reads the star widget: visible text when present,
// otherwise its aria-label ("4.5 out of 5 stars").
func classCentralRating(item *goquery.Selection) string {
	if r := text(item.Find("li.icon-star.icon-small")); r != "" {
		return r
	}
	if label, ok := item.Find(`[aria-label*="out of 5"]`).First().Attr("aria-label"); ok {
		return strings.TrimSpace(label)
	}
	return ""
}
