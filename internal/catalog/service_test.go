package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(openTestDB(t)))
	if err != nil {
		t.Fatalf("building catalog service: %v", err)
	}
	return svc
}

func strPtr(v string) *string { return &v }

func TestCourseCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCourse(ctx, CreateCourseInput{
		Title:       "Formação em Aromaterapia Clínica",
		Description: "Doze módulos com estudos de caso.",
		Price:       decimal.RequireFromString("1890.00"),
		Workload:    strPtr("120h"),
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}

	fetched, err := svc.GetCourse(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.Title != created.Title {
		t.Fatalf("expected title %q, got %q", created.Title, fetched.Title)
	}
	if !fetched.Price.Equal(created.Price) {
		t.Fatalf("expected price %s, got %s", created.Price, fetched.Price)
	}

	newPrice := decimal.RequireFromString("1690.00")
	updated, err := svc.UpdateCourse(ctx, created.ID, UpdateCourseInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected price %s, got %s", newPrice, updated.Price)
	}
	if updated.Title != created.Title {
		t.Fatalf("partial update touched the title: %q", updated.Title)
	}

	if err := svc.DeleteCourse(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.GetCourse(ctx, created.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCourseValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, CreateCourseInput{Title: "  ", Description: "x"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateCourse(ctx, CreateCourseInput{
		Title: "Curso", Description: "x", Price: decimal.NewFromInt(-10),
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublicListingsExcludeInactive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCourse(ctx, CreateCourseInput{
		Title: "Curso ativo", Description: "x", Price: decimal.NewFromInt(100), IsActive: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateCourse(ctx, CreateCourseInput{
		Title: "Curso em rascunho", Description: "x", Price: decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Produto fora de linha", Description: "x", Price: decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	courses, err := svc.ListCourses(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(courses) != 1 || courses[0].Title != "Curso ativo" {
		t.Fatalf("expected only the active course, got %+v", courses)
	}

	all, err := svc.ListAllCourses(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 courses for admin, got %d", len(all))
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no active products, got %d", len(products))
	}
}

func TestPublicationCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePublication(ctx, CreatePublicationInput{
		Title:    "Lavandula angustifolia e ansiedade",
		Abstract: "Revisão sistemática.",
		Authors:  []string{"R. Monteiro", "  ", "C. Lima"},
		Journal:  strPtr("Revista Brasileira de Fitoterapia"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created.Authors) != 2 {
		t.Fatalf("expected blank authors dropped, got %v", created.Authors)
	}

	fetched, err := svc.GetPublication(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fetched.Authors) != 2 || fetched.Authors[0] != "R. Monteiro" {
		t.Fatalf("expected authors round-tripped, got %v", fetched.Authors)
	}

	updatedAuthors := []string{"R. Monteiro"}
	updated, err := svc.UpdatePublication(ctx, created.ID, UpdatePublicationInput{Authors: &updatedAuthors})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Authors) != 1 {
		t.Fatalf("expected 1 author, got %v", updated.Authors)
	}

	if err := svc.DeletePublication(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPublicationRequiresAuthor(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePublication(context.Background(), CreatePublicationInput{
		Title: "Sem autores", Abstract: "x", Authors: []string{" "},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteAbsentIsNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteProduct(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
