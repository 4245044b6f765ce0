package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrSlotNotBookable = errors.New("slot is not bookable")
)

// ScheduleDayInput un día del horario semanal tal y como llega del API
type ScheduleDayInput struct {
	IsActive            bool   `json:"is_active"`
	OpenTime            string `json:"open_time"`
	CloseTime           string `json:"close_time"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	CapacityPerSlot     int    `json:"capacity_per_slot"`
}

type ScheduleService interface {
	GetSchedule(businessID uint) ([]model.ScheduleDay, error)
	UpdateSchedule(ownerID, businessID uint, input map[string]ScheduleDayInput) ([]model.ScheduleDay, error)
	GetAvailableSlots(businessID uint, date string) ([]string, error)
	CapacityFor(businessID uint, at time.Time) (int, error)
}

type scheduleService struct {
	businessRepo    repository.BusinessRepository
	scheduleRepo    repository.ScheduleRepository
	appointmentRepo repository.AppointmentRepository
}

func NewScheduleService(
	businessRepo repository.BusinessRepository,
	scheduleRepo repository.ScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
) ScheduleService {
	return &scheduleService{
		businessRepo:    businessRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (s *scheduleService) GetSchedule(businessID uint) ([]model.ScheduleDay, error) {
	return s.scheduleRepo.FindByBusinessID(businessID)
}

// UpdateSchedule reemplaza el horario semanal completo del negocio. Las
// claves del mapa son los nombres de día del API (sunday..saturday); los
// días ausentes quedan inactivos. Cada día activo se valida antes de tocar
// la base de datos: o entra el horario entero o no entra nada.
func (s *scheduleService) UpdateSchedule(ownerID, businessID uint, input map[string]ScheduleDayInput) ([]model.ScheduleDay, error) {
	logger.Info("Updating weekly schedule", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
	})

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

	days := make([]model.ScheduleDay, 7)
	for weekday := 0; weekday < 7; weekday++ {
		days[weekday] = model.ScheduleDay{
			BusinessID: businessID,
			Weekday:    weekday,
		}
	}

	for name, dayInput := range input {
		weekday, ok := model.WeekdayByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: día desconocido %q", ErrInvalidSchedule, name)
		}

		day := model.ScheduleDay{
			BusinessID:          businessID,
			Weekday:             weekday,
			IsActive:            dayInput.IsActive,
			OpenTime:            dayInput.OpenTime,
			CloseTime:           dayInput.CloseTime,
			SlotDurationMinutes: dayInput.SlotDurationMinutes,
			CapacityPerSlot:     dayInput.CapacityPerSlot,
		}
		if err := day.Validate(); err != nil {
			logger.Warn("Schedule rejected by validation", map[string]interface{}{
				"business_id": businessID,
				"day":         name,
				"reason":      err.Error(),
			})
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, name, err)
		}
		days[weekday] = day
	}

	if err := s.scheduleRepo.ReplaceForBusiness(businessID, days); err != nil {
		return nil, err
	}

	logger.Info("Weekly schedule updated", map[string]interface{}{
		"business_id": businessID,
	})
	return s.scheduleRepo.FindByBusinessID(businessID)
}

// GetAvailableSlots calcula los turnos reservables de un negocio publicado
// para una fecha. Parte el día en turnos completos de duración fija,
// descarta el resto parcial del final y excluye los turnos que ya están a
// plena capacidad. Devuelve las horas de inicio "HH:MM" en orden ascendente.
func (s *scheduleService) GetAvailableSlots(businessID uint, date string) ([]string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if !business.IsPublished() {
		return nil, ErrBusinessNotPublished
	}

	scheduleDay, err := s.scheduleRepo.FindByBusinessAndWeekday(businessID, int(day.Weekday()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Sin horario definido para ese día: no hay turnos
			return []string{}, nil
		}
		return nil, err
	}

	starts := scheduleDay.SlotStarts()
	if len(starts) == 0 {
		return []string{}, nil
	}

	// Ocupación confirmada del día, agrupada por turno
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	counts, err := s.appointmentRepo.CountConfirmedInRange(businessID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	occupied := make(map[int]int64, len(counts))
	for _, c := range counts {
		at := c.AppointmentTime.UTC()
		occupied[at.Hour()*60+at.Minute()] = c.Count
	}

	slots := make([]string, 0, len(starts))
	for _, start := range starts {
		if occupied[start] >= int64(scheduleDay.CapacityPerSlot) {
			continue
		}
		slots = append(slots, model.FormatClock(start))
	}

	logger.Debug("Available slots computed", map[string]interface{}{
		"business_id": businessID,
		"date":        date,
		"slots":       len(slots),
	})
	return slots, nil
}

// CapacityFor devuelve la capacidad del turno que empieza en at, o
// ErrSlotNotBookable si ese instante no es el inicio de un turno válido del
// horario vigente.
func (s *scheduleService) CapacityFor(businessID uint, at time.Time) (int, error) {
	at = at.UTC()
	if at.Second() != 0 || at.Nanosecond() != 0 {
		return 0, ErrSlotNotBookable
	}

	day, err := s.scheduleRepo.FindByBusinessAndWeekday(businessID, int(at.Weekday()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSlotNotBookable
		}
		return 0, err
	}
	if !day.IsActive {
		return 0, ErrSlotNotBookable
	}

	open, err := model.ParseClock(day.OpenTime)
	if err != nil {
		return 0, ErrSlotNotBookable
	}
	closeAt, err := model.ParseClock(day.CloseTime)
	if err != nil {
		return 0, ErrSlotNotBookable
	}

	minutes := at.Hour()*60 + at.Minute()
	if minutes < open || minutes+day.SlotDurationMinutes > closeAt {
		return 0, ErrSlotNotBookable
	}
	if (minutes-open)%day.SlotDurationMinutes != 0 {
		return 0, ErrSlotNotBookable
	}

	return day.CapacityPerSlot, nil
}
