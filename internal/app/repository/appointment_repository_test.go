package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAppointmentTest(t *testing.T) (*gorm.DB, AppointmentRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	// Share a single connection so every goroutine sees the same in-memory DB
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewAppointmentRepository(testDB)
	return testDB, repo
}

func createTestBusinessWithOwner(t *testing.T, testDB *gorm.DB) (*model.User, *model.Business) {
	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hashed",
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

	return owner, business
}

func createTestCustomer(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hashed",
		FullName:     "Cliente",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestAppointmentRepository_CreateConfirmed(t *testing.T) {
	testDB, repo := setupAppointmentTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)
	user := createTestCustomer(t, testDB, "user@example.com")

	slot := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	appt := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          user.ID,
		AppointmentTime: slot,
	}

	created, err := repo.CreateConfirmed(appt, 2)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, appt.ID)
	assert.Equal(t, model.AppointmentStatusConfirmed, appt.Status)
}

func TestAppointmentRepository_CreateConfirmed_RejectsWhenFull(t *testing.T) {
	testDB, repo := setupAppointmentTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)
	slot := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	capacity := 2

	// Fill the slot up to capacity
	for i := 0; i < capacity; i++ {
		user := createTestCustomer(t, testDB, uuid.New().String()+"@example.com")
		appt := &model.Appointment{
			Code:            uuid.New().String(),
			BusinessID:      business.ID,
			UserID:          user.ID,
			AppointmentTime: slot,
		}
		created, err := repo.CreateConfirmed(appt, capacity)
		require.NoError(t, err)
		require.True(t, created)
	}

	// One more must be rejected without error
	user := createTestCustomer(t, testDB, "late@example.com")
	appt := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          user.ID,
		AppointmentTime: slot,
	}
	created, err := repo.CreateConfirmed(appt, capacity)
	assert.NoError(t, err)
	assert.False(t, created)

	// Exactly capacity rows in the slot
	var count int64
	require.NoError(t, testDB.Model(&model.Appointment{}).
		Where("business_id = ? AND appointment_time = ? AND status = ?",
			business.ID, slot, model.AppointmentStatusConfirmed).
		Count(&count).Error)
	assert.Equal(t, int64(capacity), count)
}

func TestAppointmentRepository_CreateConfirmed_Concurrent(t *testing.T) {
	testDB, repo := setupAppointmentTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)
	slot := time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC)
	capacity := 3
	attempts := 20

	users := make([]*model.User, attempts)
	for i := 0; i < attempts; i++ {
		users[i] = createTestCustomer(t, testDB, uuid.New().String()+"@example.com")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(user *model.User) {
			defer wg.Done()
			appt := &model.Appointment{
				Code:            uuid.New().String(),
				BusinessID:      business.ID,
				UserID:          user.ID,
				AppointmentTime: slot,
			}
			created, err := repo.CreateConfirmed(appt, capacity)
			if err == nil && created {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}(users[i])
	}
	wg.Wait()

	// Exactly capacity bookings admitted, never more
	assert.Equal(t, capacity, admitted)

	var count int64
	require.NoError(t, testDB.Model(&model.Appointment{}).
		Where("business_id = ? AND appointment_time = ? AND status = ?",
			business.ID, slot, model.AppointmentStatusConfirmed).
		Count(&count).Error)
	assert.Equal(t, int64(capacity), count)
}

func TestAppointmentRepository_CancelledAppointmentFreesCapacity(t *testing.T) {
	testDB, repo := setupAppointmentTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)
	slot := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

	first := createTestCustomer(t, testDB, "first@example.com")
	appt := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          first.ID,
		AppointmentTime: slot,
	}
	created, err := repo.CreateConfirmed(appt, 1)
	require.NoError(t, err)
	require.True(t, created)

	// Slot is full for a second customer
	second := createTestCustomer(t, testDB, "second@example.com")
	blocked := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          second.ID,
		AppointmentTime: slot,
	}
	created, err = repo.CreateConfirmed(blocked, 1)
	require.NoError(t, err)
	require.False(t, created)

	// Cancelling the first booking frees the slot
	now := time.Now()
	appt.Status = model.AppointmentStatusCancelled
	appt.CancelledAt = &now
	require.NoError(t, repo.Update(appt))

	retry := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          second.ID,
		AppointmentTime: slot,
	}
	created, err = repo.CreateConfirmed(retry, 1)
	assert.NoError(t, err)
	assert.True(t, created)
}

func TestAppointmentRepository_CountConfirmedInRange(t *testing.T) {
	testDB, repo := setupAppointmentTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)

	dayStart := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	slots := []time.Time{
		time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		// Outside the requested day, must not be counted
		time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC),
	}
	for _, slot := range slots {
		user := createTestCustomer(t, testDB, uuid.New().String()+"@example.com")
		appt := &model.Appointment{
			Code:            uuid.New().String(),
			BusinessID:      business.ID,
			UserID:          user.ID,
			AppointmentTime: slot,
		}
		created, err := repo.CreateConfirmed(appt, 10)
		require.NoError(t, err)
		require.True(t, created)
	}

	counts, err := repo.CountConfirmedInRange(business.ID, dayStart, dayEnd)
	assert.NoError(t, err)
	require.Len(t, counts, 2)

	byTime := make(map[time.Time]int64)
	for _, c := range counts {
		byTime[c.AppointmentTime.UTC()] = c.Count
	}
	assert.Equal(t, int64(2), byTime[time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)])
	assert.Equal(t, int64(1), byTime[time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)])
}

func TestAppointmentRepository_MarkCompletedBefore(t *testing.T) {
	testDB, repo := setupAppointmentTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)
	user := createTestCustomer(t, testDB, "user@example.com")

	past := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          user.ID,
		AppointmentTime: time.Now().Add(-2 * time.Hour),
	}
	future := &model.Appointment{
		Code:            uuid.New().String(),
		BusinessID:      business.ID,
		UserID:          user.ID,
		AppointmentTime: time.Now().Add(2 * time.Hour),
	}
	for _, appt := range []*model.Appointment{past, future} {
		created, err := repo.CreateConfirmed(appt, 10)
		require.NoError(t, err)
		require.True(t, created)
	}

	updated, err := repo.MarkCompletedBefore(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	reloaded, err := repo.FindByID(past.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, reloaded.Status)

	reloaded, err = repo.FindByID(future.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, reloaded.Status)
}
