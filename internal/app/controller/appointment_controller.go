package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/internal/app/service"
	apperrors "github.com/servibook/servibook-backend/internal/errors"
	"github.com/servibook/servibook-backend/internal/middleware"
)

type AppointmentController struct {
	appointmentService service.AppointmentService
}

func NewAppointmentController(appointmentService service.AppointmentService) *AppointmentController {
	return &AppointmentController{
		appointmentService: appointmentService,
	}
}

type BookAppointmentRequest struct {
	BusinessID      uint   `json:"business_id" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"` // ISO-8601
}

// Formatos aceptados para appointment_time: ISO-8601 completo y el valor de
// un input datetime-local (sin segundos ni zona).
var appointmentTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseAppointmentTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range appointmentTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Book reserves a slot at a published business
// POST /api/v1/appointments
func (ctrl *AppointmentController) Book(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid booking request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	slotTime, err := parseAppointmentTime(req.AppointmentTime)
	if err != nil {
		log.Warn("Invalid appointment_time in booking request", map[string]interface{}{
			"appointment_time": req.AppointmentTime,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "La fecha y hora deben tener formato ISO-8601")
		return
	}

	log.Debug("Processing booking", map[string]interface{}{
		"user_id":          userID,
		"business_id":      req.BusinessID,
		"appointment_time": req.AppointmentTime,
	})

	appointment, err := ctrl.appointmentService.Book(userID, req.BusinessID,
		slotTime.Format("2006-01-02"), slotTime.Format("15:04"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrBusinessNotPublished):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No se encontró el negocio")
		case errors.Is(err, service.ErrInvalidDate):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "La fecha debe tener formato YYYY-MM-DD")
		case errors.Is(err, service.ErrSlotNotBookable):
			apperrors.BadRequest(c, apperrors.SlotUnavailable, "Ese turno no existe en el horario del negocio")
		case errors.Is(err, service.ErrSlotUnavailable):
			// El turno existe pero está completo
			apperrors.Conflict(c, apperrors.SlotUnavailable, "El turno ya no está disponible")
		default:
			log.Error("Booking failed", err, map[string]interface{}{
				"user_id":     userID,
				"business_id": req.BusinessID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "book appointment")
		}
		return
	}

	log.Info("Appointment booked", map[string]interface{}{
		"appointment_id": appointment.ID,
		"code":           appointment.Code,
		"user_id":        userID,
		"business_id":    req.BusinessID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment booked successfully",
		"appointment": appointment,
	})
}

// ListMine lists the authenticated user's appointments
// GET /api/v1/appointments
func (ctrl *AppointmentController) ListMine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	appointments, err := ctrl.appointmentService.ListMine(userID)
	if err != nil {
		log.Error("Failed to list appointments", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": appointments,
		"total":        len(appointments),
	})
}

// Cancel cancels one of the user's appointments, freeing its slot
// DELETE /api/v1/appointments/:id
func (ctrl *AppointmentController) Cancel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debes iniciar sesión")
		return
	}

	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID de la cita no es válido")
		return
	}

	appointment, err := ctrl.appointmentService.Cancel(userID, uint(appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			apperrors.NotFound(c, apperrors.AppointmentNotFound, "No se encontró la cita")
		case errors.Is(err, service.ErrAppointmentNotYours):
			apperrors.Forbidden(c, "La cita pertenece a otro usuario")
		case errors.Is(err, service.ErrAppointmentCancelled):
			apperrors.Conflict(c, apperrors.AppointmentCancelled, "La cita ya estaba cancelada")
		case errors.Is(err, service.ErrAppointmentPast):
			apperrors.Conflict(c, apperrors.ResourceConflict, "No se puede cancelar una cita que ya pasó")
		default:
			log.Error("Failed to cancel appointment", err, map[string]interface{}{
				"appointment_id": appointmentID,
				"user_id":        userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cancel appointment")
		}
		return
	}

	log.Info("Appointment cancelled", map[string]interface{}{
		"appointment_id": appointment.ID,
		"user_id":        userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment cancelled successfully",
		"appointment": appointment,
	})
}
