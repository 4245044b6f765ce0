package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupScheduleServiceTest(t *testing.T) (ScheduleService, *gorm.DB, *model.User, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	businessRepo := repository.NewBusinessRepository(testDB)
	scheduleRepo := repository.NewScheduleRepository(testDB)
	appointmentRepo := repository.NewAppointmentRepository(testDB)
	scheduleService := NewScheduleService(businessRepo, scheduleRepo, appointmentRepo)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		FullName:     "Ana García",
		Role:         model.RoleOwner,
	}
	require.NoError(t, testDB.Create(owner).Error)

	business := &model.Business{
		OwnerID:     owner.ID,
		Name:        "Peluquería Sol",
		Description: "Cortes y peinados",
		Address:     "Calle Mayor 1",
		Status:      model.BusinessStatusPublished,
	}
	require.NoError(t, testDB.Create(business).Error)

	return scheduleService, testDB, owner, business
}

// fullWeek active monday-friday 09:00-18:00, 30 min slots, capacity 2
func fullWeek() map[string]ScheduleDayInput {
	week := make(map[string]ScheduleDayInput, 7)
	for _, name := range model.WeekdayNames {
		week[name] = ScheduleDayInput{IsActive: false}
	}
	for _, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		week[name] = ScheduleDayInput{
			IsActive:            true,
			OpenTime:            "09:00",
			CloseTime:           "18:00",
			SlotDurationMinutes: 30,
			CapacityPerSlot:     2,
		}
	}
	return week
}

func TestScheduleService_UpdateSchedule(t *testing.T) {
	scheduleService, _, owner, business := setupScheduleServiceTest(t)

	days, err := scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)
	require.Len(t, days, 7)

	// Sunday (0) inactive, monday (1) active
	assert.False(t, days[0].IsActive)
	assert.True(t, days[1].IsActive)
	assert.Equal(t, "09:00", days[1].OpenTime)
	assert.Equal(t, 2, days[1].CapacityPerSlot)
}

func TestScheduleService_UpdateSchedule_Validation(t *testing.T) {
	scheduleService, _, owner, business := setupScheduleServiceTest(t)

	tests := []struct {
		name string
		day  ScheduleDayInput
	}{
		{
			name: "open after close",
			day: ScheduleDayInput{
				IsActive:            true,
				OpenTime:            "18:00",
				CloseTime:           "09:00",
				SlotDurationMinutes: 30,
				CapacityPerSlot:     1,
			},
		},
		{
			name: "open equals close",
			day: ScheduleDayInput{
				IsActive:            true,
				OpenTime:            "09:00",
				CloseTime:           "09:00",
				SlotDurationMinutes: 30,
				CapacityPerSlot:     1,
			},
		},
		{
			name: "malformed time",
			day: ScheduleDayInput{
				IsActive:            true,
				OpenTime:            "9am",
				CloseTime:           "18:00",
				SlotDurationMinutes: 30,
				CapacityPerSlot:     1,
			},
		},
		{
			name: "zero duration",
			day: ScheduleDayInput{
				IsActive:            true,
				OpenTime:            "09:00",
				CloseTime:           "18:00",
				SlotDurationMinutes: 0,
				CapacityPerSlot:     1,
			},
		},
		{
			name: "negative duration",
			day: ScheduleDayInput{
				IsActive:            true,
				OpenTime:            "09:00",
				CloseTime:           "18:00",
				SlotDurationMinutes: -30,
				CapacityPerSlot:     1,
			},
		},
		{
			name: "zero capacity",
			day: ScheduleDayInput{
				IsActive:            true,
				OpenTime:            "09:00",
				CloseTime:           "18:00",
				SlotDurationMinutes: 30,
				CapacityPerSlot:     0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := fullWeek()
			week["monday"] = tt.day
			_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}

	// Unknown day name
	week := fullWeek()
	week["funday"] = ScheduleDayInput{IsActive: false}
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	// Inactive days skip time validation entirely
	week = fullWeek()
	week["sunday"] = ScheduleDayInput{IsActive: false, OpenTime: "bogus"}
	_, err = scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	assert.NoError(t, err)
}

func TestScheduleService_UpdateSchedule_WrongOwner(t *testing.T) {
	scheduleService, _, _, business := setupScheduleServiceTest(t)

	_, err := scheduleService.UpdateSchedule(9999, business.ID, fullWeek())
	assert.ErrorIs(t, err, ErrNotYourBusiness)
}

func TestScheduleService_GetAvailableSlots(t *testing.T) {
	scheduleService, _, owner, business := setupScheduleServiceTest(t)

	// Monday 09:00-10:30 with 45 min slots: 09:00 and 09:45 fit, the
	// remaining 09:45-10:30 tail is exactly one slot, so both full slots
	// plus no partial remainder
	week := fullWeek()
	week["monday"] = ScheduleDayInput{
		IsActive:            true,
		OpenTime:            "09:00",
		CloseTime:           "10:30",
		SlotDurationMinutes: 45,
		CapacityPerSlot:     1,
	}
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	require.NoError(t, err)

	// 2026-09-07 is a monday
	slots, err := scheduleService.GetAvailableSlots(business.ID, "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:45"}, slots)

	// Sin reservas de por medio, una segunda consulta devuelve exactamente
	// la misma lista ordenada
	again, err := scheduleService.GetAvailableSlots(business.ID, "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestScheduleService_GetAvailableSlots_DropsPartialTail(t *testing.T) {
	scheduleService, _, owner, business := setupScheduleServiceTest(t)

	// 09:00-10:00 with 45 min slots: only 09:00 fits, 09:45-10:30 would
	// spill past closing
	week := fullWeek()
	week["monday"] = ScheduleDayInput{
		IsActive:            true,
		OpenTime:            "09:00",
		CloseTime:           "10:00",
		SlotDurationMinutes: 45,
		CapacityPerSlot:     1,
	}
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	require.NoError(t, err)

	slots, err := scheduleService.GetAvailableSlots(business.ID, "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, slots)
}

func TestScheduleService_GetAvailableSlots_ExcludesFullSlots(t *testing.T) {
	scheduleService, testDB, owner, business := setupScheduleServiceTest(t)

	week := fullWeek()
	week["monday"] = ScheduleDayInput{
		IsActive:            true,
		OpenTime:            "09:00",
		CloseTime:           "10:00",
		SlotDurationMinutes: 30,
		CapacityPerSlot:     1,
	}
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	require.NoError(t, err)

	// Fill the 09:00 slot
	customer := &model.User{Email: "c@example.com", PasswordHash: "h", Role: model.RoleUser}
	require.NoError(t, testDB.Create(customer).Error)

	appointmentRepo := repository.NewAppointmentRepository(testDB)
	appt := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          customer.ID,
		AppointmentTime: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
	}
	created, err := appointmentRepo.CreateConfirmed(appt, 1)
	require.NoError(t, err)
	require.True(t, created)

	slots, err := scheduleService.GetAvailableSlots(business.ID, "2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30"}, slots)
}

func TestScheduleService_GetAvailableSlots_InactiveDay(t *testing.T) {
	scheduleService, _, owner, business := setupScheduleServiceTest(t)

	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)

	// 2026-09-06 is a sunday, inactive in fullWeek
	slots, err := scheduleService.GetAvailableSlots(business.ID, "2026-09-06")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestScheduleService_GetAvailableSlots_Errors(t *testing.T) {
	scheduleService, testDB, owner, business := setupScheduleServiceTest(t)

	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)

	_, err = scheduleService.GetAvailableSlots(business.ID, "07-09-2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = scheduleService.GetAvailableSlots(9999, "2026-09-07")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	// Draft businesses have no public availability
	require.NoError(t, testDB.Model(business).Update("status", model.BusinessStatusDraft).Error)
	_, err = scheduleService.GetAvailableSlots(business.ID, "2026-09-07")
	assert.ErrorIs(t, err, ErrBusinessNotPublished)
}

func TestScheduleService_CapacityFor(t *testing.T) {
	scheduleService, _, owner, business := setupScheduleServiceTest(t)

	week := fullWeek()
	week["monday"] = ScheduleDayInput{
		IsActive:            true,
		OpenTime:            "09:00",
		CloseTime:           "18:00",
		SlotDurationMinutes: 30,
		CapacityPerSlot:     3,
	}
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	require.NoError(t, err)

	monday := func(hour, minute int) time.Time {
		return time.Date(2026, 9, 7, hour, minute, 0, 0, time.UTC)
	}

	// Aligned slot start
	capacity, err := scheduleService.CapacityFor(business.ID, monday(9, 30))
	require.NoError(t, err)
	assert.Equal(t, 3, capacity)

	// Misaligned start
	_, err = scheduleService.CapacityFor(business.ID, monday(9, 15))
	assert.ErrorIs(t, err, ErrSlotNotBookable)

	// Before opening
	_, err = scheduleService.CapacityFor(business.ID, monday(8, 30))
	assert.ErrorIs(t, err, ErrSlotNotBookable)

	// Last slot must end by closing: 17:30 fits, 18:00 does not
	_, err = scheduleService.CapacityFor(business.ID, monday(17, 30))
	assert.NoError(t, err)
	_, err = scheduleService.CapacityFor(business.ID, monday(18, 0))
	assert.ErrorIs(t, err, ErrSlotNotBookable)

	// Inactive day (sunday)
	_, err = scheduleService.CapacityFor(business.ID, time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrSlotNotBookable)
}
