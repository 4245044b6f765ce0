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

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	categoryService := NewCategoryService(categoryRepo, nil)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Role:         model.RoleOwner,
	}
	require.NoError(t, testDB.Create(owner).Error)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	return categoryService, testDB, owner, admin
}

func TestCategoryService_Create(t *testing.T) {
	categoryService, _, _, _ := setupCategoryServiceTest(t)

	category, err := categoryService.Create("Peluquería")
	require.NoError(t, err)
	assert.NotZero(t, category.ID)

	// Duplicate names rejected
	_, err = categoryService.Create("Peluquería")
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)

	categories, err := categoryService.List()
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCategoryService_RequestLifecycle(t *testing.T) {
	categoryService, _, owner, admin := setupCategoryServiceTest(t)

	request, err := categoryService.SubmitRequest(owner.ID, CategoryRequestInput{
		CategoryName: "Quiromasaje",
		Reason:       "Ofrezco este servicio y no hay categoría",
		EvidenceURL:  "https://example.com/titulo.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, request.Status)

	approved, err := categoryService.ApproveRequest(request.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, approved.Status)

	// Approval promoted the name to a real category
	categories, err := categoryService.List()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Quiromasaje", categories[0].Name)

	// Resolved requests stay resolved
	_, err = categoryService.ApproveRequest(request.ID, admin.ID)
	assert.ErrorIs(t, err, ErrRequestAlreadyResolved)

	// Requesting an existing category makes no sense
	_, err = categoryService.SubmitRequest(owner.ID, CategoryRequestInput{
		CategoryName: "Quiromasaje",
		Reason:       "otra vez",
	})
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)
}

func TestCategoryService_RejectRequest(t *testing.T) {
	categoryService, _, owner, admin := setupCategoryServiceTest(t)

	request, err := categoryService.SubmitRequest(owner.ID, CategoryRequestInput{
		CategoryName: "Astrología",
		Reason:       "Demanda creciente",
	})
	require.NoError(t, err)

	rejected, err := categoryService.RejectRequest(request.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, rejected.Status)

	// No category was created
	categories, err := categoryService.List()
	require.NoError(t, err)
	assert.Len(t, categories, 0)

	// The owner can see their own requests
	mine, err := categoryService.ListMyRequests(owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.RequestStatusRejected, mine[0].Status)
}
