package source

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/course-aggregator/pkg/utils"
)

// text returns the whitespace-collapsed text of the first node in sel.
func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.First().Text()), " ")
}

// href returns the trimmed href of the first node in sel.
func href(sel *goquery.Selection) (string, bool) {
	v, ok := sel.First().Attr("href")
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// resolve turns a source-relative reference into an absolute URL.
func resolve(base *url.URL, ref string) (string, bool) {
	if strings.TrimSpace(ref) == "" {
		return "", false
	}
	abs, err := utils.ToAbsoluteURL(base, ref)
	if err != nil {
		return "", false
	}
	return abs, true
}

// imageAttrs are checked, in order, after src and srcset have been tried.
var imageAttrs = []string{"data-src", "data-original", "data-image"}

// imageURL finds a thumbnail inside sel: an inline img src, then the first
// srcset candidate of an img or source tag, then a named data attribute.
// It returns "" when nothing usable is found so Normalize can apply the placeholder.
func imageURL(sel *goquery.Selection, base *url.URL) string {
	img := sel.Find("img").First()
	if sel.Is("img") {
		img = sel.First()
	}
	if src, ok := img.Attr("src"); ok && usableImage(src) {
		if abs, ok := resolve(base, src); ok {
			return abs
		}
	}

	srcsets := []string{}
	if v, ok := img.Attr("srcset"); ok {
		srcsets = append(srcsets, v)
	}
	sel.Find("source[srcset]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("srcset")
		srcsets = append(srcsets, v)
	})
	for _, set := range srcsets {
		if candidate := firstSrcsetCandidate(set); usableImage(candidate) {
			if abs, ok := resolve(base, candidate); ok {
				return abs
			}
		}
	}

	for _, name := range imageAttrs {
		for _, node := range []*goquery.Selection{img, sel} {
			if v, ok := node.Attr(name); ok && usableImage(v) {
				if abs, ok := resolve(base, v); ok {
					return abs
				}
			}
		}
	}
	return ""
}

func firstSrcsetCandidate(srcset string) string {
	first := strings.TrimSpace(strings.Split(srcset, ",")[0])
	if fields := strings.Fields(first); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// usableImage rejects empty values and inline data URIs used as lazy-load placeholders.
func usableImage(src string) bool {
	src = strings.TrimSpace(src)
	return src != "" && !strings.HasPrefix(src, "data:")
}
