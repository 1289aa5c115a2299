package catalog

import "github.com/shopspring/decimal"

// CreateCourseInput holds the validated payload to create a course.
type CreateCourseInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Image       *string
	Workload    *string
	EnrollURL   *string
	IsActive    bool
}

// UpdateCourseInput holds optional mutation values for a course.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Workload    *string
	EnrollURL   *string
	IsActive    *bool
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       *string
	IsActive    bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	IsActive    *bool
}

// CreatePublicationInput holds the validated payload to create a
// publication.
type CreatePublicationInput struct {
	Title    string
	Abstract string
	Authors  []string
	Journal  *string
	Year     *int
	DOI      *string
	URL      *string
}

// UpdatePublicationInput holds optional mutation values for a
// publication.
type UpdatePublicationInput struct {
	Title    *string
	Abstract *string
	Authors  *[]string
	Journal  *string
	Year     *int
	DOI      *string
	URL      *string
}
