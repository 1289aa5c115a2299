package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rlmonteiro/essencia-backend/pkg/db/models"
	"github.com/rlmonteiro/essencia-backend/pkg/enums"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
)

type catalogStub struct {
	courses      []models.Course
	products     []models.Product
	publications []models.Publication

	coursesErr      error
	productsErr     error
	publicationsErr error

	calls atomic.Int64
}

func (s *catalogStub) ListCourses(context.Context) ([]models.Course, error) {
	s.calls.Add(1)
	return s.courses, s.coursesErr
}

func (s *catalogStub) ListProducts(context.Context) ([]models.Product, error) {
	s.calls.Add(1)
	return s.products, s.productsErr
}

func (s *catalogStub) ListPublications(context.Context) ([]models.Publication, error) {
	s.calls.Add(1)
	return s.publications, s.publicationsErr
}

func course(title, description string) models.Course {
	return models.Course{ID: uuid.New(), Title: title, Description: description, Price: decimal.NewFromInt(100)}
}

func product(name, description, price string) models.Product {
	return models.Product{ID: uuid.New(), Name: name, Description: description, Price: decimal.RequireFromString(price)}
}

func publication(title, abstract string, authors ...string) models.Publication {
	return models.Publication{ID: uuid.New(), Title: title, Abstract: abstract, Authors: authors}
}

func newSearchService(t *testing.T, catalog Catalog) Service {
	t.Helper()
	svc, err := NewService(catalog, nil, Options{})
	if err != nil {
		t.Fatalf("building search service: %v", err)
	}
	return svc
}

func TestSearchShortQuerySkipsCatalogs(t *testing.T) {
	t.Parallel()

	stub := &catalogStub{courses: []models.Course{course("Aromaterapia", "intro")}}
	svc := newSearchService(t, stub)

	for _, query := range []string{"", "a", " á "} {
		results, err := svc.Search(context.Background(), query)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if len(results) != 0 {
			t.Fatalf("query %q: expected no results, got %d", query, len(results))
		}
	}
	if got := stub.calls.Load(); got != 0 {
		t.Fatalf("expected no catalog calls, got %d", got)
	}
}

func TestSearchCaseInsensitiveAcrossFields(t *testing.T) {
	t.Parallel()

	stub := &catalogStub{
		courses: []models.Course{
			course("Formação em Aromaterapia Clínica", "curso completo"),
			course("Fitoterapia Aplicada", "módulo sobre alecrim e lavanda"),
		},
		products: []models.Product{
			product("Óleo Essencial de Alecrim", "óleo puro 10ml", "62.00"),
			product("Difusor Ultrassônico", "para ambientes pequenos", "149.90"),
		},
		publications: []models.Publication{
			publication("Rosmarinus officinalis na prática clínica", "revisão de literatura", "A. Alecrim", "B. Souza"),
		},
	}
	svc := newSearchService(t, stub)

	results, err := svc.Search(context.Background(), "ALE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}

	// the title match ranks before description and author matches
	if results[0].Type != enums.CatalogTypeProduct || results[0].Title != "Óleo Essencial de Alecrim" {
		t.Fatalf("expected product title match first, got %+v", results[0])
	}
	if results[0].Subtitle != "R$ 62.00" {
		t.Fatalf("expected formatted price subtitle, got %q", results[0].Subtitle)
	}

	// ties keep arrival order: courses before publications
	if results[1].Type != enums.CatalogTypeCourse || results[1].Title != "Fitoterapia Aplicada" {
		t.Fatalf("expected course description match second, got %+v", results[1])
	}
	if results[2].Type != enums.CatalogTypePublication {
		t.Fatalf("expected publication author match last, got %+v", results[2])
	}
	if results[2].Subtitle != "A. Alecrim, B. Souza" {
		t.Fatalf("expected author list subtitle, got %q", results[2].Subtitle)
	}
}

func TestSearchTruncatesResults(t *testing.T) {
	t.Parallel()

	stub := &catalogStub{}
	for i := 0; i < 8; i++ {
		stub.courses = append(stub.courses, course("Curso de Aromaterapia", "nível avançado"))
		stub.products = append(stub.products, product("Kit Aromaterapia", "cinco óleos", "199.00"))
	}
	svc := newSearchService(t, stub)

	results, err := svc.Search(context.Background(), "aromaterapia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
}

func TestSearchIdempotent(t *testing.T) {
	t.Parallel()

	stub := &catalogStub{
		courses:  []models.Course{course("Aromaterapia", "intro"), course("Massagem com óleos", "aromaterapia aplicada")},
		products: []models.Product{product("Lavanda 10ml", "óleo de aromaterapia", "62.00")},
	}
	svc := newSearchService(t, stub)

	first, err := svc.Search(context.Background(), "aromaterapia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), "aromaterapia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical result counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("result %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSearchPartialDegradation(t *testing.T) {
	t.Parallel()

	stub := &catalogStub{
		courses:     []models.Course{course("Aromaterapia", "intro")},
		productsErr: errors.New("connection refused"),
		publications: []models.Publication{
			publication("Aromaterapia e sono", "estudo piloto", "C. Lima"),
		},
	}
	svc := newSearchService(t, stub)

	results, err := svc.Search(context.Background(), "aromaterapia")
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results from healthy sources, got %d", len(results))
	}
}

func TestSearchAllSourcesFailing(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	stub := &catalogStub{coursesErr: boom, productsErr: boom, publicationsErr: boom}
	svc := newSearchService(t, stub)

	_, err := svc.Search(context.Background(), "aromaterapia")
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %s", appErr.Code())
	}
}
