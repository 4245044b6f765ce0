package repository

import (
	"testing"

	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupScheduleTest(t *testing.T) (*gorm.DB, ScheduleRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewScheduleRepository(testDB)
	return testDB, repo
}

func weeklySchedule(businessID uint) []model.ScheduleDay {
	days := make([]model.ScheduleDay, 7)
	for i := 0; i < 7; i++ {
		days[i] = model.ScheduleDay{
			BusinessID:          businessID,
			Weekday:             i,
			IsActive:            i >= 1 && i <= 5, // lunes a viernes
			OpenTime:            "09:00",
			CloseTime:           "18:00",
			SlotDurationMinutes: 30,
			CapacityPerSlot:     2,
		}
	}
	return days
}

func TestScheduleRepository_ReplaceForBusiness(t *testing.T) {
	testDB, repo := setupScheduleTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)

	err := repo.ReplaceForBusiness(business.ID, weeklySchedule(business.ID))
	assert.NoError(t, err)

	days, err := repo.FindByBusinessID(business.ID)
	assert.NoError(t, err)
	require.Len(t, days, 7)

	// Ordered by weekday, sunday first
	for i, day := range days {
		assert.Equal(t, i, day.Weekday)
	}
	assert.False(t, days[0].IsActive)
	assert.True(t, days[1].IsActive)
}

func TestScheduleRepository_ReplaceForBusiness_Overwrites(t *testing.T) {
	testDB, repo := setupScheduleTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)

	require.NoError(t, repo.ReplaceForBusiness(business.ID, weeklySchedule(business.ID)))

	// Replace with a new version where monday has a different capacity
	updated := weeklySchedule(business.ID)
	updated[1].CapacityPerSlot = 5
	require.NoError(t, repo.ReplaceForBusiness(business.ID, updated))

	days, err := repo.FindByBusinessID(business.ID)
	assert.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, 5, days[1].CapacityPerSlot)

	// No stale rows left behind
	var total int64
	require.NoError(t, testDB.Unscoped().Model(&model.ScheduleDay{}).
		Where("business_id = ? AND deleted_at IS NULL", business.ID).
		Count(&total).Error)
	assert.Equal(t, int64(7), total)
}

func TestScheduleRepository_FindByBusinessAndWeekday(t *testing.T) {
	testDB, repo := setupScheduleTest(t)
	defer db.CleanupTestDB(testDB)

	_, business := createTestBusinessWithOwner(t, testDB)
	require.NoError(t, repo.ReplaceForBusiness(business.ID, weeklySchedule(business.ID)))

	day, err := repo.FindByBusinessAndWeekday(business.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, day.Weekday)
	assert.Equal(t, "09:00", day.OpenTime)

	_, err = repo.FindByBusinessAndWeekday(9999, 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
