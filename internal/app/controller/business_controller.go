package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
)

type BusinessController struct {
	businessService    service.BusinessService
	scheduleService    service.ScheduleService
	appointmentService service.AppointmentService
}

func NewBusinessController(
	businessService service.BusinessService,
	scheduleService service.ScheduleService,
	appointmentService service.AppointmentService,
) *BusinessController {
	return &BusinessController{
		businessService:    businessService,
		scheduleService:    scheduleService,
		appointmentService: appointmentService,
	}
}

type UpdateBusinessRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	LogoURL     *string   `json:"logo_url"`
	Photos      *[]string `json:"photos"`
	CategoryIDs *[]uint   `json:"category_ids"`
}

// UpdateScheduleRequest horario semanal completo, indexado por nombre del día
// ("monday".."sunday"). Los días que no se envían quedan inactivos.
type UpdateScheduleRequest struct {
	Schedule map[string]service.ScheduleDayInput `json:"schedule" binding:"required"`
}

// ListBusinesses returns published businesses, optionally filtered
// GET /api/v1/businesses?category_id=&search=
func (ctrl *BusinessController) ListBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var filter repository.BusinessFilter
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de categoría no es válido")
			return
		}
		filter.CategoryID = uint(categoryID)
	}
	filter.Search = c.Query("search")

	businesses, err := ctrl.businessService.ListPublished(filter)
	if err != nil {
		log.Error("Failed to list businesses", err, map[string]interface{}{
			"category_id": filter.CategoryID,
			"search":      filter.Search,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"total":      len(businesses),
	})
}

// GetBusiness returns a published business with its review aggregates
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	detail, err := ctrl.businessService.GetPublishedByID(uint(businessID))
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
			return
		}
		log.Error("Failed to get business", err, map[string]interface{}{
			"business_id": businessID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business":       detail.Business,
		"average_rating": detail.AverageRating,
		"review_count":   detail.ReviewCount,
	})
}

// GetAvailableSlots returns the bookable slots of a business for a date
// GET /api/v1/businesses/:id/available-slots?date=YYYY-MM-DD
func (ctrl *BusinessController) GetAvailableSlots(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	date := c.Query("date")
	if date == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "El parámetro date es obligatorio")
		return
	}

	slots, err := ctrl.scheduleService.GetAvailableSlots(uint(businessID), date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "La fecha debe tener formato YYYY-MM-DD")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrBusinessNotPublished):
			// Un negocio en borrador no existe de cara al público
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		default:
			log.Error("Failed to get available slots", err, map[string]interface{}{
				"business_id": businessID,
				"date":        date,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get available slots")
		}
		return
	}

	// La respuesta es la lista desnuda de horas "HH:MM"
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, slots)
}

// GetMyBusiness returns the business of the authenticated owner
// GET /api/v1/businesses/my-business
func (ctrl *BusinessController) GetMyBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	business, err := ctrl.businessService.GetMyBusiness(ownerID)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Aún no tienes un negocio")
			return
		}
		log.Error("Failed to get own business", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get my business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// UpdateMyBusiness updates the owner's business profile
// PUT /api/v1/businesses/my-business/:id
func (ctrl *BusinessController) UpdateMyBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	business, err := ctrl.businessService.UpdateMyBusiness(ownerID, uint(businessID), service.BusinessUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		LogoURL:     req.LogoURL,
		Photos:      req.Photos,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrNotYourBusiness):
			apperrors.Forbidden(c, "El negocio pertenece a otro dueño")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Alguna de las categorías no existe")
		default:
			log.Error("Failed to update business", err, map[string]interface{}{
				"business_id": businessID,
				"owner_id":    ownerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		}
		return
	}

	log.Info("Business updated", map[string]interface{}{
		"business_id": business.ID,
		"owner_id":    ownerID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business updated successfully",
		"business": business,
	})
}

// UpdateSchedule replaces the weekly schedule of the owner's business
// PUT /api/v1/businesses/my-business/:id/schedule
func (ctrl *BusinessController) UpdateSchedule(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid schedule update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	schedule, err := ctrl.scheduleService.UpdateSchedule(ownerID, uint(businessID), req.Schedule)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrNotYourBusiness):
			apperrors.Forbidden(c, "El negocio pertenece a otro dueño")
		case errors.Is(err, service.ErrInvalidSchedule):
			// El detalle del error indica el día y el motivo concretos
			apperrors.BadRequest(c, apperrors.ScheduleInvalidDay, fmt.Sprintf("El horario no es válido: %v", err))
		default:
			log.Error("Failed to update schedule", err, map[string]interface{}{
				"business_id": businessID,
				"owner_id":    ownerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update schedule")
		}
		return
	}

	log.Info("Schedule updated", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Schedule updated successfully",
		"schedule": schedule,
	})
}

// Publish makes the owner's business publicly visible and bookable
// POST /api/v1/businesses/my-business/:id/publish
func (ctrl *BusinessController) Publish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	business, err := ctrl.businessService.Publish(ownerID, uint(businessID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrNotYourBusiness):
			apperrors.Forbidden(c, "El negocio pertenece a otro dueño")
		case errors.Is(err, service.ErrScheduleRequired):
			apperrors.BadRequest(c, apperrors.BusinessScheduleRequired, "Para publicar necesitas al menos un día activo con horario de apertura anterior al de cierre")
		default:
			log.Error("Failed to publish business", err, map[string]interface{}{
				"business_id": businessID,
				"owner_id":    ownerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "publish business")
		}
		return
	}

	log.Info("Business published", map[string]interface{}{
		"business_id": business.ID,
		"owner_id":    ownerID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business published successfully",
		"business": business,
	})
}

// ListAppointments lists the appointments of the owner's business
// GET /api/v1/businesses/my-business/:id/appointments?status=
func (ctrl *BusinessController) ListAppointments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	status := c.Query("status")

	appointments, err := ctrl.appointmentService.ListForBusiness(ownerID, uint(businessID), status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrNotYourBusiness):
			apperrors.Forbidden(c, "El negocio pertenece a otro dueño")
		default:
			log.Error("Failed to list business appointments", err, map[string]interface{}{
				"business_id": businessID,
				"owner_id":    ownerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list appointments")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": appointments,
		"total":        len(appointments),
	})
}

// ExportAppointments downloads the business appointments as an XLSX file
// GET /api/v1/businesses/my-business/:id/appointments/export
func (ctrl *BusinessController) ExportAppointments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID del negocio no es válido")
		return
	}

	data, err := ctrl.appointmentService.ExportForBusiness(ownerID, uint(businessID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrNotYourBusiness):
			apperrors.Forbidden(c, "El negocio pertenece a otro dueño")
		default:
			log.Error("Failed to export appointments", err, map[string]interface{}{
				"business_id": businessID,
				"owner_id":    ownerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export appointments")
		}
		return
	}

	log.Info("Appointments exported", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
		"bytes":       len(data),
	})

	filename := fmt.Sprintf("citas_%d_%s.xlsx", businessID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
