package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

type ReplyReviewRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListReviews returns the reviews of a business
// GET /api/v1/businesses/:id/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	reviews, err := ctrl.reviewService.ListByBusiness(uint(businessID))
	if err != nil {
		log.Error("Failed to list reviews", err, map[string]interface{}{
			"business_id": businessID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// CreateReview publishes a review of a business, tied to a past appointment
// POST /api/v1/businesses/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	review, err := ctrl.reviewService.Create(userID, uint(businessID), req.AppointmentID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrReviewInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "La puntuación debe estar entre 1 y 5")
		case errors.Is(err, service.ErrReviewAlreadyExists):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "Ya has reseñado este negocio")
		case errors.Is(err, service.ErrReviewNoAppointment):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Solo puedes reseñar negocios donde hayas tenido una cita")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"business_id": businessID,
				"user_id":     userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		}
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": businessID,
		"user_id":     userID,
		"rating":      review.Rating,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// ReplyReview lets the business owner reply once to a review
// POST /api/v1/reviews/:id/reply
func (ctrl *ReviewController) ReplyReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de la reseña no es válido")
		return
	}

	var req ReplyReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	review, err := ctrl.reviewService.Reply(ownerID, uint(reviewID), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "No se encontró la reseña")
		case errors.Is(err, service.ErrNotYourBusiness):
			apperrors.Forbidden(c, "Solo el dueño del negocio puede responder")
		case errors.Is(err, service.ErrReviewAlreadyReplied):
			apperrors.Conflict(c, apperrors.ResourceConflict, "La reseña ya tiene una respuesta")
		default:
			log.Error("Failed to reply to review", err, map[string]interface{}{
				"review_id": reviewID,
				"owner_id":  ownerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reply review")
		}
		return
	}

	log.Info("Review replied", map[string]interface{}{
		"review_id": review.ID,
		"owner_id":  ownerID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Reply added successfully",
		"review":  review,
	})
}

// DeleteReview removes a review (author, or any admin)
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de la reseña no es válido")
		return
	}

	role, _ := middleware.GetUserRole(c)
	isAdmin := role == model.RoleAdmin

	if err := ctrl.reviewService.Delete(userID, uint(reviewID), isAdmin); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "No se encontró la reseña")
			return
		}
		log.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete review")
		return
	}

	log.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}
