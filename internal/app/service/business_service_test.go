package service

import (
	"testing"

	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBusinessServiceTest(t *testing.T) (BusinessService, ScheduleService, *gorm.DB, *model.User, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	businessRepo := repository.NewBusinessRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	scheduleRepo := repository.NewScheduleRepository(testDB)
	appointmentRepo := repository.NewAppointmentRepository(testDB)

	businessService := NewBusinessService(businessRepo, categoryRepo, reviewRepo)
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
		Status:      model.BusinessStatusDraft,
	}
	require.NoError(t, testDB.Create(business).Error)

	return businessService, scheduleService, testDB, owner, business
}

func TestBusinessService_Publish_RequiresSchedule(t *testing.T) {
	businessService, _, _, owner, business := setupBusinessServiceTest(t)

	// No schedule at all
	_, err := businessService.Publish(owner.ID, business.ID)
	assert.ErrorIs(t, err, ErrScheduleRequired)
}

func TestBusinessService_Publish_RequiresActiveDay(t *testing.T) {
	businessService, scheduleService, _, owner, business := setupBusinessServiceTest(t)

	// A schedule with every day inactive does not unlock publishing
	week := make(map[string]ScheduleDayInput, 7)
	for _, name := range model.WeekdayNames {
		week[name] = ScheduleDayInput{IsActive: false}
	}
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, week)
	require.NoError(t, err)

	_, err = businessService.Publish(owner.ID, business.ID)
	assert.ErrorIs(t, err, ErrScheduleRequired)
}

func TestBusinessService_Publish(t *testing.T) {
	businessService, scheduleService, _, owner, business := setupBusinessServiceTest(t)

	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)

	published, err := businessService.Publish(owner.ID, business.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	firstPublishedAt := *published.PublishedAt

	// Publishing again is a no-op, the original timestamp survives
	again, err := businessService.Publish(owner.ID, business.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BusinessStatusPublished, again.Status)
	require.NotNil(t, again.PublishedAt)
	assert.Equal(t, firstPublishedAt.Unix(), again.PublishedAt.Unix())
}

func TestBusinessService_Publish_WrongOwner(t *testing.T) {
	businessService, scheduleService, _, owner, business := setupBusinessServiceTest(t)

	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)

	_, err = businessService.Publish(9999, business.ID)
	assert.ErrorIs(t, err, ErrNotYourBusiness)
}

func TestBusinessService_GetPublishedByID_HidesDrafts(t *testing.T) {
	businessService, scheduleService, _, owner, business := setupBusinessServiceTest(t)

	// Draft is invisible to the public detail endpoint
	_, err := businessService.GetPublishedByID(business.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	_, err = scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)
	_, err = businessService.Publish(owner.ID, business.ID)
	require.NoError(t, err)

	detail, err := businessService.GetPublishedByID(business.ID)
	require.NoError(t, err)
	assert.Equal(t, business.ID, detail.Business.ID)
	assert.Equal(t, int64(0), detail.ReviewCount)
}

func TestBusinessService_UpdateMyBusiness(t *testing.T) {
	businessService, _, testDB, owner, business := setupBusinessServiceTest(t)

	category := &model.Category{Name: "Peluquería"}
	require.NoError(t, testDB.Create(category).Error)

	name := "Peluquería Luna"
	photos := []string{"https://example.com/1.jpg", "https://example.com/2.jpg"}
	categoryIDs := []uint{category.ID}

	updated, err := businessService.UpdateMyBusiness(owner.ID, business.ID, BusinessUpdateInput{
		Name:        &name,
		Photos:      &photos,
		CategoryIDs: &categoryIDs,
	})
	require.NoError(t, err)
	assert.Equal(t, "Peluquería Luna", updated.Name)
	// Untouched fields survive
	assert.Equal(t, "Cortes y peinados", updated.Description)
	assert.Len(t, updated.Photos, 2)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Peluquería", updated.Categories[0].Name)

	// Unknown category is rejected
	badIDs := []uint{9999}
	_, err = businessService.UpdateMyBusiness(owner.ID, business.ID, BusinessUpdateInput{
		CategoryIDs: &badIDs,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	// Wrong owner is rejected
	_, err = businessService.UpdateMyBusiness(9999, business.ID, BusinessUpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotYourBusiness)
}

func TestBusinessService_ListPublished(t *testing.T) {
	businessService, scheduleService, testDB, owner, business := setupBusinessServiceTest(t)

	// Publish the seeded business
	_, err := scheduleService.UpdateSchedule(owner.ID, business.ID, fullWeek())
	require.NoError(t, err)
	_, err = businessService.Publish(owner.ID, business.ID)
	require.NoError(t, err)

	// A second draft stays hidden
	other := &model.User{Email: "other@example.com", PasswordHash: "h", Role: model.RoleOwner}
	require.NoError(t, testDB.Create(other).Error)
	draft := &model.Business{
		OwnerID:     other.ID,
		Name:        "Borrador",
		Description: "d",
		Address:     "a",
		Status:      model.BusinessStatusDraft,
	}
	require.NoError(t, testDB.Create(draft).Error)

	businesses, err := businessService.ListPublished(repository.BusinessFilter{})
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, business.ID, businesses[0].ID)
}
