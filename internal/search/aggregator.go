package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/rlmonteiro/essencia-backend/pkg/db/models"
	"github.com/rlmonteiro/essencia-backend/pkg/enums"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	"github.com/rlmonteiro/essencia-backend/pkg/types"
)

// Catalog is the read surface the aggregator searches across.
type Catalog interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListPublications(ctx context.Context) ([]models.Publication, error)
}

// Result is one ranked hit across the three catalogs.
type Result struct {
	ID          string            `json:"id"`
	Type        enums.CatalogType `json:"type"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle,omitempty"`
	Description string            `json:"description,omitempty"`
}

// candidate carries the ranking tier alongside the result until the
// merge is done.
type candidate struct {
	result     Result
	titleMatch bool
}

// Service runs cross-catalog searches. Stateless and safe for
// concurrent use.
type Service interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type service struct {
	catalog     Catalog
	logg        *logger.Logger
	minQueryLen int
	maxResults  int
}

// Options tune the aggregator guards.
type Options struct {
	MinQueryLen int
	MaxResults  int
}

// NewService builds the search aggregator.
func NewService(catalog Catalog, logg *logger.Logger, opts Options) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if opts.MinQueryLen <= 0 {
		opts.MinQueryLen = 2
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	return &service{
		catalog:     catalog,
		logg:        logg,
		minQueryLen: opts.MinQueryLen,
		maxResults:  opts.MaxResults,
	}, nil
}

// Search matches the query case-insensitively against all three
// catalogs at once and merges the hits, title matches first. Queries
// below the minimum length return an empty list without touching the
// catalogs. A failing catalog degrades to zero hits from that source;
// the call only fails when every source fails.
func (s *service) Search(ctx context.Context, query string) ([]Result, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(needle)) < s.minQueryLen {
		return []Result{}, nil
	}

	var (
		mu       sync.Mutex
		sources  [3][]candidate
		failures error
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		hits, err := s.searchCourses(groupCtx, needle)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("courses: %w", err))
			return nil
		}
		sources[0] = hits
		return nil
	})
	group.Go(func() error {
		hits, err := s.searchProducts(groupCtx, needle)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("products: %w", err))
			return nil
		}
		sources[1] = hits
		return nil
	})
	group.Go(func() error {
		hits, err := s.searchPublications(groupCtx, needle)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("publications: %w", err))
			return nil
		}
		sources[2] = hits
		return nil
	})
	_ = group.Wait()

	if failures != nil {
		if len(multierr.Errors(failures)) == len(sources) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "all catalogs unavailable")
		}
		s.warn(ctx, failures)
	}

	merged := make([]candidate, 0, len(sources[0])+len(sources[1])+len(sources[2]))
	for _, hits := range sources {
		merged = append(merged, hits...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].titleMatch && !merged[j].titleMatch
	})
	if len(merged) > s.maxResults {
		merged = merged[:s.maxResults]
	}

	results := make([]Result, 0, len(merged))
	for _, hit := range merged {
		results = append(results, hit.result)
	}
	return results, nil
}

func (s *service) searchCourses(ctx context.Context, needle string) ([]candidate, error) {
	courses, err := s.catalog.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	hits := []candidate{}
	for _, course := range courses {
		titleMatch := containsFold(course.Title, needle)
		if !titleMatch && !containsFold(course.Description, needle) {
			continue
		}
		hits = append(hits, candidate{
			titleMatch: titleMatch,
			result: Result{
				ID:          course.ID.String(),
				Type:        enums.CatalogTypeCourse,
				Title:       course.Title,
				Description: course.Description,
			},
		})
	}
	return hits, nil
}

func (s *service) searchProducts(ctx context.Context, needle string) ([]candidate, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	hits := []candidate{}
	for _, product := range products {
		titleMatch := containsFold(product.Name, needle)
		if !titleMatch && !containsFold(product.Description, needle) {
			continue
		}
		hits = append(hits, candidate{
			titleMatch: titleMatch,
			result: Result{
				ID:          product.ID.String(),
				Type:        enums.CatalogTypeProduct,
				Title:       product.Name,
				Subtitle:    types.FormatBRL(product.Price),
				Description: product.Description,
			},
		})
	}
	return hits, nil
}

func (s *service) searchPublications(ctx context.Context, needle string) ([]candidate, error) {
	publications, err := s.catalog.ListPublications(ctx)
	if err != nil {
		return nil, err
	}
	hits := []candidate{}
	for _, publication := range publications {
		titleMatch := containsFold(publication.Title, needle)
		match := titleMatch || containsFold(publication.Abstract, needle)
		if !match {
			for _, author := range publication.Authors {
				if containsFold(author, needle) {
					match = true
					break
				}
			}
		}
		if !match {
			continue
		}
		hits = append(hits, candidate{
			titleMatch: titleMatch,
			result: Result{
				ID:          publication.ID.String(),
				Type:        enums.CatalogTypePublication,
				Title:       publication.Title,
				Subtitle:    strings.Join(publication.Authors, ", "),
				Description: publication.Abstract,
			},
		})
	}
	return hits, nil
}

func (s *service) warn(ctx context.Context, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, "search.partial_degradation")
}

// containsFold reports whether haystack contains the already-lowercased
// needle, ignoring case.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
