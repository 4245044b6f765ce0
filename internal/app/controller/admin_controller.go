package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
)

// AdminController operaciones reservadas al administrador: resolución de
// solicitudes de dueño y de categoría, y gestión directa de categorías.
type AdminController struct {
	userService     service.UserService
	categoryService service.CategoryService
}

func NewAdminController(userService service.UserService, categoryService service.CategoryService) *AdminController {
	return &AdminController{
		userService:     userService,
		categoryService: categoryService,
	}
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

// ListOwnerRequests lists owner requests, optionally filtered by status
// GET /api/v1/admin/owner-requests?status=
func (ctrl *AdminController) ListOwnerRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")

	requests, err := ctrl.userService.ListOwnerRequests(status)
	if err != nil {
		log.Error("Failed to list owner requests", err, map[string]interface{}{
			"status": status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list owner requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// ApproveOwnerRequest approves a pending owner request, promoting the user
// POST /api/v1/admin/owner-requests/:id/approve
func (ctrl *AdminController) ApproveOwnerRequest(c *gin.Context) {
	ctrl.resolveOwnerRequest(c, true)
}

// RejectOwnerRequest rejects a pending owner request
// POST /api/v1/admin/owner-requests/:id/reject
func (ctrl *AdminController) RejectOwnerRequest(c *gin.Context) {
	ctrl.resolveOwnerRequest(c, false)
}

func (ctrl *AdminController) resolveOwnerRequest(c *gin.Context, approve bool) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de la solicitud no es válido")
		return
	}

	var request interface{}
	if approve {
		request, err = ctrl.userService.ApproveOwnerRequest(uint(requestID), adminID)
	} else {
		request, err = ctrl.userService.RejectOwnerRequest(uint(requestID), adminID)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			apperrors.NotFound(c, apperrors.RequestNotFound, "No se encontró la solicitud")
		case errors.Is(err, service.ErrRequestAlreadyResolved):
			apperrors.Conflict(c, apperrors.RequestAlreadyResolved, "La solicitud ya fue resuelta")
		default:
			log.Error("Failed to resolve owner request", err, map[string]interface{}{
				"request_id": requestID,
				"admin_id":   adminID,
				"approve":    approve,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve owner request")
		}
		return
	}

	log.Info("Owner request resolved", map[string]interface{}{
		"request_id": requestID,
		"admin_id":   adminID,
		"approved":   approve,
	})

	message := "Owner request rejected"
	if approve {
		message = "Owner request approved"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"request": request,
	})
}

// ListCategoryRequests lists category requests, optionally filtered by status
// GET /api/v1/admin/category-requests?status=
func (ctrl *AdminController) ListCategoryRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")

	requests, err := ctrl.categoryService.ListRequests(status)
	if err != nil {
		log.Error("Failed to list category requests", err, map[string]interface{}{
			"status": status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list category requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// ApproveCategoryRequest approves a category request, creating the category
// POST /api/v1/admin/category-requests/:id/approve
func (ctrl *AdminController) ApproveCategoryRequest(c *gin.Context) {
	ctrl.resolveCategoryRequest(c, true)
}

// RejectCategoryRequest rejects a category request
// POST /api/v1/admin/category-requests/:id/reject
func (ctrl *AdminController) RejectCategoryRequest(c *gin.Context) {
	ctrl.resolveCategoryRequest(c, false)
}

func (ctrl *AdminController) resolveCategoryRequest(c *gin.Context, approve bool) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de la solicitud no es válido")
		return
	}

	var request interface{}
	if approve {
		request, err = ctrl.categoryService.ApproveRequest(uint(requestID), adminID)
	} else {
		request, err = ctrl.categoryService.RejectRequest(uint(requestID), adminID)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			apperrors.NotFound(c, apperrors.RequestNotFound, "No se encontró la solicitud")
		case errors.Is(err, service.ErrRequestAlreadyResolved):
			apperrors.Conflict(c, apperrors.RequestAlreadyResolved, "La solicitud ya fue resuelta")
		default:
			log.Error("Failed to resolve category request", err, map[string]interface{}{
				"request_id": requestID,
				"admin_id":   adminID,
				"approve":    approve,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve category request")
		}
		return
	}

	log.Info("Category request resolved", map[string]interface{}{
		"request_id": requestID,
		"admin_id":   adminID,
		"approved":   approve,
	})

	message := "Category request rejected"
	if approve {
		message = "Category request approved"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"request": request,
	})
}

// CreateCategory creates a category directly, without a request
// POST /api/v1/admin/categories
func (ctrl *AdminController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	category, err := ctrl.categoryService.Create(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryAlreadyExists) {
			apperrors.Conflict(c, apperrors.CategoryAlreadyExists, "Esa categoría ya existe")
			return
		}
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

// DeleteCategory removes a category
// DELETE /api/v1/admin/categories/:id
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de categoría no es válido")
		return
	}

	if err := ctrl.categoryService.Delete(uint(categoryID)); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "No se encontró la categoría")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete category")
		return
	}

	log.Info("Category deleted", map[string]interface{}{
		"category_id": categoryID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
