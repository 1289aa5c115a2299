package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rlmonteiro/essencia-backend/pkg/db/models"
)

// Repository wires together persistence for the three catalog tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (r *Repository) SaveCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (r *Repository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourses returns courses in insertion order. When activeOnly is
// set, inactive listings are excluded.
func (r *Repository) ListCourses(ctx context.Context, activeOnly bool) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) CreatePublication(ctx context.Context, publication *models.Publication) (*models.Publication, error) {
	if err := r.db.WithContext(ctx).Create(publication).Error; err != nil {
		return nil, err
	}
	return publication, nil
}

func (r *Repository) SavePublication(ctx context.Context, publication *models.Publication) (*models.Publication, error) {
	if err := r.db.WithContext(ctx).Save(publication).Error; err != nil {
		return nil, err
	}
	return publication, nil
}

func (r *Repository) DeletePublication(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Publication{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindPublicationByID(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	var publication models.Publication
	if err := r.db.WithContext(ctx).First(&publication, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &publication, nil
}

func (r *Repository) ListPublications(ctx context.Context) ([]models.Publication, error) {
	var publications []models.Publication
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&publications).Error; err != nil {
		return nil, err
	}
	return publications, nil
}
