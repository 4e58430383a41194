package source

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/repository"
)

// Options selects and parameterizes the adapters built by Build.
type Options struct {
	Names           []string
	CourseraPages   int
	PageConcurrency int
	LifeCatalogURL  string
	// Browser renders JavaScript-only sources. Sources needing it are skipped when nil.
	Browser repository.Fetcher
}

// Build constructs the adapters named in opts, in order. Unknown or duplicate names are errors.
func Build(deps Deps, opts Options) ([]Source, error) {
	seen := make(map[string]bool, len(opts.Names))
	var sources []Source
	for _, raw := range opts.Names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate source %q", name)
		}
		seen[name] = true

		switch name {
		case CourseraName:
			sources = append(sources, NewCoursera(deps, opts.CourseraPages, opts.PageConcurrency))
		case HarvardName:
			sources = append(sources, NewHarvard(deps))
		case UdacityName:
			sources = append(sources, NewUdacity(deps))
		case WHOName:
			sources = append(sources, NewWHO(deps))
		case LifeName:
			life, err := NewLife(deps, opts.LifeCatalogURL)
			if err != nil {
				return nil, err
			}
			sources = append(sources, life)
		case UdemyName:
			if opts.Browser == nil {
				deps.Logger.Warn("Skipping source that requires a browser", zap.String("source", name))
				continue
			}
			browserDeps := deps
			browserDeps.Fetcher = opts.Browser
			browserDeps.Timeout = 0
			sources = append(sources, NewUdemy(browserDeps))
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	return sources, nil
}
