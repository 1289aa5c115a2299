package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rlmonteiro/essencia-backend/api/responses"
	"github.com/rlmonteiro/essencia-backend/api/validators"
	catalogsvc "github.com/rlmonteiro/essencia-backend/internal/catalog"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
)

type createCourseRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	Workload    *string         `json:"workload,omitempty"`
	EnrollURL   *string         `json:"enroll_url,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

type updateCourseRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Workload    *string          `json:"workload,omitempty"`
	EnrollURL   *string          `json:"enroll_url,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

type createProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

type updateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

type createPublicationRequest struct {
	Title    string   `json:"title" validate:"required"`
	Abstract string   `json:"abstract" validate:"required"`
	Authors  []string `json:"authors" validate:"required,min=1,dive,required"`
	Journal  *string  `json:"journal,omitempty"`
	Year     *int     `json:"year,omitempty"`
	DOI      *string  `json:"doi,omitempty"`
	URL      *string  `json:"url,omitempty"`
}

type updatePublicationRequest struct {
	Title    *string   `json:"title,omitempty"`
	Abstract *string   `json:"abstract,omitempty"`
	Authors  *[]string `json:"authors,omitempty"`
	Journal  *string   `json:"journal,omitempty"`
	Year     *int      `json:"year,omitempty"`
	DOI      *string   `json:"doi,omitempty"`
	URL      *string   `json:"url,omitempty"`
}

// AdminListCourses lists every course, drafts included.
func AdminListCourses(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		courses, err := svc.ListAllCourses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, courses)
	}
}

// AdminCreateCourse creates a course listing.
func AdminCreateCourse(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createCourseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}
		course, err := svc.CreateCourse(r.Context(), catalogsvc.CreateCourseInput{
			Title:       payload.Title,
			Description: payload.Description,
			Price:       payload.Price,
			Image:       payload.Image,
			Workload:    payload.Workload,
			EnrollURL:   payload.EnrollURL,
			IsActive:    isActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, course)
	}
}

// AdminUpdateCourse applies a partial update to a course.
func AdminUpdateCourse(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCourseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.UpdateCourse(r.Context(), id, catalogsvc.UpdateCourseInput{
			Title:       payload.Title,
			Description: payload.Description,
			Price:       payload.Price,
			Image:       payload.Image,
			Workload:    payload.Workload,
			EnrollURL:   payload.EnrollURL,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// AdminDeleteCourse removes a course listing.
func AdminDeleteCourse(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCourse(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminListProducts lists every product, inactive included.
func AdminListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		products, err := svc.ListAllProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// AdminCreateProduct creates a product listing.
func AdminCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}
		product, err := svc.CreateProduct(r.Context(), catalogsvc.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Image:       payload.Image,
			IsActive:    isActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, catalogsvc.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Image:       payload.Image,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product listing.
func AdminDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminListPublications lists every publication.
func AdminListPublications(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		publications, err := svc.ListPublications(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, publications)
	}
}

// AdminCreatePublication creates a publication entry.
func AdminCreatePublication(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createPublicationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		publication, err := svc.CreatePublication(r.Context(), catalogsvc.CreatePublicationInput{
			Title:    payload.Title,
			Abstract: payload.Abstract,
			Authors:  payload.Authors,
			Journal:  payload.Journal,
			Year:     payload.Year,
			DOI:      payload.DOI,
			URL:      payload.URL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, publication)
	}
}

// AdminUpdatePublication applies a partial update to a publication.
func AdminUpdatePublication(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "publicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePublicationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		publication, err := svc.UpdatePublication(r.Context(), id, catalogsvc.UpdatePublicationInput{
			Title:    payload.Title,
			Abstract: payload.Abstract,
			Authors:  payload.Authors,
			Journal:  payload.Journal,
			Year:     payload.Year,
			DOI:      payload.DOI,
			URL:      payload.URL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, publication)
	}
}

// AdminDeletePublication removes a publication entry.
func AdminDeletePublication(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "publicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeletePublication(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
