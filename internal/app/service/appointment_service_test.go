package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupAppointmentServiceTest(t *testing.T) (AppointmentService, ScheduleService, *gorm.DB, *model.User, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	businessRepo := repository.NewBusinessRepository(testDB)
	scheduleRepo := repository.NewScheduleRepository(testDB)
	appointmentRepo := repository.NewAppointmentRepository(testDB)
	scheduleService := NewScheduleService(businessRepo, scheduleRepo, appointmentRepo)
	appointmentService := NewAppointmentService(appointmentRepo, businessRepo, scheduleService, nil)

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

	// Weekly schedule: monday-friday 09:00-18:00, 30 min slots, capacity 2
	_, err = scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)

	return appointmentService, scheduleService, testDB, owner, business
}

func newCustomer(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Cliente",
		PhoneNumber:  "+34 600 000 000",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestAppointmentService_Book(t *testing.T) {
	appointmentService, _, testDB, _, business := setupAppointmentServiceTest(t)
	customer := newCustomer(t, testDB, "customer@example.com")

	appointment, err := appointmentService.Book(customer.ID, business.ID, "2026-09-07", "10:00")
	require.NoError(t, err)
	assert.NotZero(t, appointment.ID)
	assert.NotEmpty(t, appointment.Code)
	assert.Equal(t, model.AppointmentStatusConfirmed, appointment.Status)
	assert.Equal(t, time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC), appointment.AppointmentTime.UTC())
}

func TestAppointmentService_Book_Rejections(t *testing.T) {
	appointmentService, _, testDB, owner, business := setupAppointmentServiceTest(t)
	customer := newCustomer(t, testDB, "customer@example.com")

	tests := []struct {
		name    string
		date    string
		time    string
		wantErr error
	}{
		{name: "misaligned start", date: "2026-09-07", time: "10:10", wantErr: ErrSlotNotBookable},
		{name: "before opening", date: "2026-09-07", time: "08:00", wantErr: ErrSlotNotBookable},
		{name: "inactive day", date: "2026-09-06", time: "10:00", wantErr: ErrSlotNotBookable},
		{name: "bad date", date: "mañana", time: "10:00", wantErr: ErrInvalidDate},
		{name: "bad time", date: "2026-09-07", time: "10h", wantErr: ErrSlotNotBookable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := appointmentService.Book(customer.ID, business.ID, tt.date, tt.time)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Unknown business
	_, err := appointmentService.Book(customer.ID, 9999, "2026-09-07", "10:00")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	// Draft business cannot take bookings
	draft := &model.Business{
		OwnerID:     newCustomer(t, testDB, "owner2@example.com").ID,
		Name:        "Borrador",
		Description: "d",
		Address:     "a",
		Status:      model.BusinessStatusDraft,
	}
	require.NoError(t, testDB.Create(draft).Error)
	_, err = appointmentService.Book(customer.ID, draft.ID, "2026-09-07", "10:00")
	assert.ErrorIs(t, err, ErrBusinessNotPublished)

	_ = owner
}

func TestAppointmentService_Book_SlotCapacity(t *testing.T) {
	appointmentService, scheduleService, testDB, _, business := setupAppointmentServiceTest(t)

	// Capacity 2 per slot: two bookings pass, the third fails
	first := newCustomer(t, testDB, "a@example.com")
	second := newCustomer(t, testDB, "b@example.com")
	third := newCustomer(t, testDB, "c@example.com")

	_, err := appointmentService.Book(first.ID, business.ID, "2026-09-07", "11:00")
	require.NoError(t, err)
	_, err = appointmentService.Book(second.ID, business.ID, "2026-09-07", "11:00")
	require.NoError(t, err)

	_, err = appointmentService.Book(third.ID, business.ID, "2026-09-07", "11:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// The full slot disappears from availability
	slots, err := scheduleService.GetAvailableSlots(business.ID, "2026-09-07")
	require.NoError(t, err)
	assert.NotContains(t, slots, "11:00")
	assert.Contains(t, slots, "11:30")
}

func TestAppointmentService_Cancel(t *testing.T) {
	appointmentService, _, testDB, _, business := setupAppointmentServiceTest(t)
	customer := newCustomer(t, testDB, "customer@example.com")
	other := newCustomer(t, testDB, "other@example.com")

	appointment, err := appointmentService.Book(customer.ID, business.ID, "2026-09-07", "12:00")
	require.NoError(t, err)

	// Another user cannot cancel it
	_, err = appointmentService.Cancel(other.ID, appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotYours)

	cancelled, err := appointmentService.Cancel(customer.ID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	// Cancelling twice fails
	_, err = appointmentService.Cancel(customer.ID, appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentCancelled)

	_, err = appointmentService.Cancel(customer.ID, 9999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentService_CancelFreesSlot(t *testing.T) {
	appointmentService, _, testDB, _, business := setupAppointmentServiceTest(t)

	// Shrink capacity to 1 for a clean check
	require.NoError(t, testDB.Model(&model.ScheduleDay{}).
		Where("business_id = ?", business.ID).
		Update("capacity_per_slot", 1).Error)

	first := newCustomer(t, testDB, "a@example.com")
	second := newCustomer(t, testDB, "b@example.com")

	appointment, err := appointmentService.Book(first.ID, business.ID, "2026-09-07", "13:00")
	require.NoError(t, err)

	_, err = appointmentService.Book(second.ID, business.ID, "2026-09-07", "13:00")
	require.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = appointmentService.Cancel(first.ID, appointment.ID)
	require.NoError(t, err)

	// The slot is bookable again
	_, err = appointmentService.Book(second.ID, business.ID, "2026-09-07", "13:00")
	assert.NoError(t, err)
}

func TestAppointmentService_ListForBusiness(t *testing.T) {
	appointmentService, _, testDB, owner, business := setupAppointmentServiceTest(t)
	customer := newCustomer(t, testDB, "customer@example.com")

	_, err := appointmentService.Book(customer.ID, business.ID, "2026-09-07", "09:00")
	require.NoError(t, err)
	appointment, err := appointmentService.Book(customer.ID, business.ID, "2026-09-07", "09:30")
	require.NoError(t, err)
	_, err = appointmentService.Cancel(customer.ID, appointment.ID)
	require.NoError(t, err)

	all, err := appointmentService.ListForBusiness(owner.ID, business.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := appointmentService.ListForBusiness(owner.ID, business.ID, string(model.AppointmentStatusConfirmed))
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)

	// Only the owner sees the agenda
	_, err = appointmentService.ListForBusiness(customer.ID, business.ID, "")
	assert.ErrorIs(t, err, ErrNotYourBusiness)
}

func TestAppointmentService_ExportForBusiness(t *testing.T) {
	appointmentService, _, testDB, owner, business := setupAppointmentServiceTest(t)
	customer := newCustomer(t, testDB, "customer@example.com")

	_, err := appointmentService.Book(customer.ID, business.ID, "2026-09-07", "09:00")
	require.NoError(t, err)

	data, err := appointmentService.ExportForBusiness(owner.ID, business.ID)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// Valid workbook with header plus one row
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Citas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "2026-09-07", rows[1][1])
}
