package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotYours  = errors.New("appointment belongs to another user")
	ErrAppointmentCancelled = errors.New("appointment already cancelled")
	ErrAppointmentPast      = errors.New("appointment already took place")
	ErrSlotUnavailable      = errors.New("slot is at capacity")
)

type AppointmentService interface {
	Book(userID, businessID uint, date, startTime string) (*model.Appointment, error)
	ListMine(userID uint) ([]model.Appointment, error)
	Cancel(userID, appointmentID uint) (*model.Appointment, error)
	ListForBusiness(ownerID, businessID uint, status string) ([]model.Appointment, error)
	ExportForBusiness(ownerID, businessID uint) ([]byte, error)
	CompletePast() (int64, error)
}

type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	businessRepo    repository.BusinessRepository
	scheduleService ScheduleService
	notifier        NotificationService
}

func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	businessRepo repository.BusinessRepository,
	scheduleService ScheduleService,
	notifier NotificationService,
) AppointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		scheduleService: scheduleService,
		notifier:        notifier,
	}
}

// Book reserva el turno que empieza en date+startTime. La admisión final la
// decide la base de datos con una escritura condicional: aquí solo se
// comprueba que el turno pertenece al horario vigente y con qué capacidad.
func (s *appointmentService) Book(userID, businessID uint, date, startTime string) (*model.Appointment, error) {
	logger.Info("Booking appointment", map[string]interface{}{
		"user_id":     userID,
		"business_id": businessID,
		"date":        date,
		"start_time":  startTime,
	})

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if !business.IsPublished() {
		logger.Warn("Booking rejected: business not published", map[string]interface{}{
			"business_id": businessID,
		})
		return nil, ErrBusinessNotPublished
	}

	appointmentTime, err := parseSlotTime(date, startTime)
	if err != nil {
		return nil, err
	}

	capacity, err := s.scheduleService.CapacityFor(businessID, appointmentTime)
	if err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      businessID,
		UserID:          userID,
		AppointmentTime: appointmentTime,
	}

	created, err := s.appointmentRepo.CreateConfirmed(appointment, capacity)
	if err != nil {
		return nil, err
	}
	if !created {
		logger.Warn("Booking rejected: slot at capacity", map[string]interface{}{
			"business_id":      businessID,
			"appointment_time": appointmentTime,
			"capacity":         capacity,
		})
		return nil, ErrSlotUnavailable
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewBooking(appointment, business); err != nil {
			logger.Warn("Failed to notify owner of new booking", map[string]interface{}{
				"business_id": businessID,
			})
		}
	}

	logger.Info("Appointment booked", map[string]interface{}{
		"appointment_id": appointment.ID,
		"code":           appointment.Code,
		"user_id":        userID,
		"business_id":    businessID,
	})
	return appointment, nil
}

func (s *appointmentService) ListMine(userID uint) ([]model.Appointment, error) {
	return s.appointmentRepo.FindByUserID(userID)
}

// Cancel cancela una cita confirmada del propio usuario. La fila cancelada
// se conserva y deja de contar para la capacidad del turno.
func (s *appointmentService) Cancel(userID, appointmentID uint) (*model.Appointment, error) {
	logger.Info("Cancelling appointment", map[string]interface{}{
		"appointment_id": appointmentID,
		"user_id":        userID,
	})

	appointment, err := s.appointmentRepo.FindByID(appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appointment.UserID != userID {
		return nil, ErrAppointmentNotYours
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, ErrAppointmentCancelled
	}
	if appointment.Status == model.AppointmentStatusCompleted {
		return nil, ErrAppointmentPast
	}

	now := time.Now()
	appointment.Status = model.AppointmentStatusCancelled
	appointment.CancelledAt = &now
	if err := s.appointmentRepo.Update(appointment); err != nil {
		return nil, err
	}

	if s.notifier != nil && appointment.Business != nil {
		if err := s.notifier.NotifyBookingCancelled(appointment, appointment.Business); err != nil {
			logger.Warn("Failed to notify owner of cancellation", map[string]interface{}{
				"business_id": appointment.BusinessID,
			})
		}
	}

	logger.Info("Appointment cancelled", map[string]interface{}{
		"appointment_id": appointmentID,
	})
	return appointment, nil
}

func (s *appointmentService) ListForBusiness(ownerID, businessID uint, status string) ([]model.Appointment, error) {
	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if business.OwnerID != ownerID {
		return nil, ErrNotYourBusiness
	}

	return s.appointmentRepo.FindByBusinessID(businessID, status)
}

// ExportForBusiness vuelca la agenda del negocio a un libro XLSX
func (s *appointmentService) ExportForBusiness(ownerID, businessID uint) ([]byte, error) {
	appointments, err := s.ListForBusiness(ownerID, businessID, "")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Citas"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Código", "Fecha", "Hora", "Cliente", "Teléfono", "Estado"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, appointment := range appointments {
		row := i + 2
		clientName := ""
		clientPhone := ""
		if appointment.User != nil {
			clientName = appointment.User.FullName
			clientPhone = appointment.User.PhoneNumber
		}

		values := []interface{}{
			appointment.Code,
			appointment.AppointmentTime.Format("2006-01-02"),
			appointment.AppointmentTime.Format("15:04"),
			clientName,
			clientPhone,
			string(appointment.Status),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write appointments workbook", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	logger.Info("Appointments exported", map[string]interface{}{
		"business_id":  businessID,
		"appointments": len(appointments),
	})
	return buf.Bytes(), nil
}

// CompletePast marca como completadas las citas confirmadas cuyo turno ya
// pasó. Lo invoca el planificador diario.
func (s *appointmentService) CompletePast() (int64, error) {
	count, err := s.appointmentRepo.MarkCompletedBefore(time.Now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		logger.Info("Past appointments marked as completed", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}

// parseSlotTime combina fecha y hora del API en el instante del turno
func parseSlotTime(date, startTime string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	minutes, err := model.ParseClock(startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrSlotNotBookable, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, time.UTC), nil
}
