package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CategoryRequestRequest struct {
	CategoryName string `json:"category_name" binding:"required,min=2,max=50"`
	Reason       string `json:"reason" binding:"required"`
	EvidenceURL  string `json:"evidence_url"`
}

// ListCategories returns all service categories
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.List()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// SubmitRequest lets an owner propose a new category
// POST /api/v1/categories/requests
func (ctrl *CategoryController) SubmitRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	var req CategoryRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	request, err := ctrl.categoryService.SubmitRequest(ownerID, service.CategoryRequestInput{
		CategoryName: req.CategoryName,
		Reason:       req.Reason,
		EvidenceURL:  req.EvidenceURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryAlreadyExists) {
			apperrors.Conflict(c, apperrors.CategoryAlreadyExists, "Esa categoría ya existe")
			return
		}
		log.Error("Failed to submit category request", err, map[string]interface{}{
			"owner_id":      ownerID,
			"category_name": req.CategoryName,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit category request")
		return
	}

	log.Info("Category request submitted", map[string]interface{}{
		"request_id":    request.ID,
		"owner_id":      ownerID,
		"category_name": req.CategoryName,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category request submitted successfully",
		"request": request,
	})
}

// ListMyRequests lists the category requests submitted by the owner
// GET /api/v1/categories/requests/mine
func (ctrl *CategoryController) ListMyRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	requests, err := ctrl.categoryService.ListMyRequests(ownerID)
	if err != nil {
		log.Error("Failed to list own category requests", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list category requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
	})
}
