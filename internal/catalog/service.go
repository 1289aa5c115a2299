package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rlmonteiro/essencia-backend/pkg/db/models"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
)

// Service exposes catalog reads for the storefront and search, plus
// the admin mutation surface. Public list methods return active
// listings only.
type Service interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListPublications(ctx context.Context) ([]models.Publication, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetPublication(ctx context.Context, id uuid.UUID) (*models.Publication, error)

	ListAllCourses(ctx context.Context) ([]models.Course, error)
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	CreateCourse(ctx context.Context, input CreateCourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, input UpdateCourseInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreatePublication(ctx context.Context, input CreatePublicationInput) (*models.Publication, error)
	UpdatePublication(ctx context.Context, id uuid.UUID, input UpdatePublicationInput) (*models.Publication, error)
	DeletePublication(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.repo.ListCourses(ctx, true)
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, true)
}

func (s *service) ListPublications(ctx context.Context) ([]models.Publication, error) {
	return s.repo.ListPublications(ctx)
}

func (s *service) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	return s.repo.ListCourses(ctx, false)
}

func (s *service) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, false)
}

func (s *service) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.repo.FindCourseByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course not found")
	}
	return course, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}
	return product, nil
}

func (s *service) GetPublication(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	publication, err := s.repo.FindPublicationByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "publication not found")
	}
	return publication, nil
}

func (s *service) CreateCourse(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	course := &models.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Image:       input.Image,
		Workload:    input.Workload,
		EnrollURL:   input.EnrollURL,
		IsActive:    input.IsActive,
	}
	created, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating course")
	}
	return created, nil
}

func (s *service) UpdateCourse(ctx context.Context, id uuid.UUID, input UpdateCourseInput) (*models.Course, error) {
	course, err := s.repo.FindCourseByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course not found")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		course.Title = title
	}
	if input.Description != nil {
		course.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		course.Price = *input.Price
	}
	if input.Image != nil {
		course.Image = input.Image
	}
	if input.Workload != nil {
		course.Workload = input.Workload
	}
	if input.EnrollURL != nil {
		course.EnrollURL = input.EnrollURL
	}
	if input.IsActive != nil {
		course.IsActive = *input.IsActive
	}

	saved, err := s.repo.SaveCourse(ctx, course)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating course")
	}
	return saved, nil
}

func (s *service) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return notFoundOr(err, "course not found")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Image:       input.Image,
		IsActive:    input.IsActive,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Image != nil {
		product.Image = input.Image
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return saved, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return notFoundOr(err, "product not found")
	}
	return nil
}

func (s *service) CreatePublication(ctx context.Context, input CreatePublicationInput) (*models.Publication, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	authors := trimAuthors(input.Authors)
	if len(authors) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one author is required")
	}

	publication := &models.Publication{
		ID:       uuid.New(),
		Title:    title,
		Abstract: strings.TrimSpace(input.Abstract),
		Authors:  authors,
		Journal:  input.Journal,
		Year:     input.Year,
		DOI:      input.DOI,
		URL:      input.URL,
	}
	created, err := s.repo.CreatePublication(ctx, publication)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating publication")
	}
	return created, nil
}

func (s *service) UpdatePublication(ctx context.Context, id uuid.UUID, input UpdatePublicationInput) (*models.Publication, error) {
	publication, err := s.repo.FindPublicationByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "publication not found")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		publication.Title = title
	}
	if input.Abstract != nil {
		publication.Abstract = strings.TrimSpace(*input.Abstract)
	}
	if input.Authors != nil {
		authors := trimAuthors(*input.Authors)
		if len(authors) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one author is required")
		}
		publication.Authors = authors
	}
	if input.Journal != nil {
		publication.Journal = input.Journal
	}
	if input.Year != nil {
		publication.Year = input.Year
	}
	if input.DOI != nil {
		publication.DOI = input.DOI
	}
	if input.URL != nil {
		publication.URL = input.URL
	}

	saved, err := s.repo.SavePublication(ctx, publication)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating publication")
	}
	return saved, nil
}

func (s *service) DeletePublication(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePublication(ctx, id); err != nil {
		return notFoundOr(err, "publication not found")
	}
	return nil
}

func trimAuthors(authors []string) pq.StringArray {
	cleaned := pq.StringArray{}
	for _, author := range authors {
		author = strings.TrimSpace(author)
		if author != "" {
			cleaned = append(cleaned, author)
		}
	}
	return cleaned
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog query failed")
}
