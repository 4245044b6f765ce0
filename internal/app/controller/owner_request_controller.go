package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
)

// OwnerRequestController solicitudes de los usuarios para convertirse en dueño
type OwnerRequestController struct {
	userService service.UserService
}

func NewOwnerRequestController(userService service.UserService) *OwnerRequestController {
	return &OwnerRequestController{
		userService: userService,
	}
}

type SubmitOwnerRequestRequest struct {
	BusinessName        string `json:"business_name" binding:"required,min=2,max=100"`
	BusinessDescription string `json:"business_description" binding:"required"`
	Address             string `json:"address" binding:"required"`
	LogoURL             string `json:"logo_url"`
}

// Submit registers a request to become a business owner
// POST /api/v1/owner-requests
func (ctrl *OwnerRequestController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	var req SubmitOwnerRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid owner request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	request, err := ctrl.userService.SubmitOwnerRequest(userID, service.OwnerRequestInput{
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		Address:             req.Address,
		LogoURL:             req.LogoURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyOwner):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Ya eres dueño de un negocio")
		case errors.Is(err, service.ErrRequestAlreadyExists):
			apperrors.Conflict(c, apperrors.RequestAlreadyPending, "Ya tienes una solicitud registrada")
		default:
			log.Error("Failed to submit owner request", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit owner request")
		}
		return
	}

	log.Info("Owner request submitted", map[string]interface{}{
		"request_id":    request.ID,
		"user_id":       userID,
		"business_name": req.BusinessName,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Owner request submitted successfully",
		"request": request,
	})
}

// GetMine returns the user's own owner request, if any
// GET /api/v1/owner-requests/mine
func (ctrl *OwnerRequestController) GetMine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	request, err := ctrl.userService.GetMyOwnerRequest(userID)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			apperrors.NotFound(c, apperrors.RequestNotFound, "No tienes ninguna solicitud")
			return
		}
		log.Error("Failed to get own owner request", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get owner request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
	})
}
