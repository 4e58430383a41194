package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/pkg/utils"
	"github.com/user/course-aggregator/pkg/workerpool"
)

const (
	CourseraName = "coursera"

	courseraImageProxy = "https://d3njjcbhbojbot.cloudfront.net/api/utilities/v1/imageproxy/"
)

var courseraBase = utils.MustParseURL("https://www.coursera.org")

// Coursera scrapes the free-course search results, fetching a fixed range of
// result pages concurrently.
type Coursera struct {
	deps        Deps
	base        *url.URL
	pages       int
	concurrency int
}

// NewCoursera creates the Coursera adapter for result pages 1..pages.
func NewCoursera(deps Deps, pages, concurrency int) *Coursera {
	if pages <= 0 {
		pages = 8
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Coursera{deps: deps, base: courseraBase, pages: pages, concurrency: concurrency}
}

func (c *Coursera) Name() string { return CourseraName }

func (c *Coursera) pageURL(page int) string {
	return fmt.Sprintf("%s/courses?query=free&page=%d&index=prod_all_launched_products_term_optimization", c.base, page)
}

func (c *Coursera) Scrape(ctx context.Context) []entity.Course {
	pages := make([]int, c.pages)
	for i := range pages {
		pages[i] = i + 1
	}

	perPage := workerpool.Map(ctx, pages, c.concurrency, func(ctx context.Context, page int) []entity.Course {
		doc, ok := c.deps.document(ctx, CourseraName, c.pageURL(page))
		if !ok {
			return nil
		}
		return c.parse(doc)
	})

	var courses []entity.Course
	for _, page := range perPage {
		courses = append(courses, page...)
	}
	c.deps.Logger.Info("Scraped source", zap.String("source", CourseraName), zap.Int("pages", c.pages), zap.Int("courses", len(courses)))
	return courses
}

func (c *Coursera) parse(doc *goquery.Document) []entity.Course {
	return extractItems(c.deps.Logger, CourseraName, doc.Find("div.css-16m4c33"), func(i int, item *goquery.Selection) (entity.Course, error) {
		title := text(item.Find("h3.cds-CommonCard-title"))
		if title == "" {
			return entity.Course{}, missing(CourseraName, i, "title")
		}
		partner := text(item.Find("p.cds-ProductCard-partnerNames"))
		if partner == "" {
			return entity.Course{}, missing(CourseraName, i, "partner")
		}
		ref, ok := href(item.Find(`a[class*="cds-CommonCard-titleLink"]`))
		if !ok {
			return entity.Course{}, missing(CourseraName, i, "link")
		}
		link, ok := resolve(c.base, ref)
		if !ok {
			return entity.Course{}, missing(CourseraName, i, "link")
		}

		return entity.Course{
			Title:    title,
			Provider: CourseraName + " / " + partner,
			Detail:   text(item.Find("div.cds-ProductCard-body")),
			Rating:   text(item.Find("p.css-2xargn")),
			Category: partner,
			Link:     link,
			Image:    c.image(item),
		}, nil
	})
}

// image unwraps Coursera's image proxy so the original asset URL is exposed.
func (c *Coursera) image(item *goquery.Selection) string {
	img := imageURL(item.Find("div.cds-CommonCard-previewImage"), c.base)
	return strings.TrimPrefix(img, courseraImageProxy)
}
