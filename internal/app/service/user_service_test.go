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

func setupUserServiceTest(t *testing.T) (UserService, *gorm.DB, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	requestRepo := repository.NewOwnerRequestRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	userService := NewUserService(userRepo, requestRepo, businessRepo, nil)

	user := &model.User{
		Email:        "user@example.com",
		PasswordHash: "hash",
		FullName:     "Carlos Pérez",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		FullName:     "Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	return userService, testDB, user, admin
}

func ownerRequestInput() OwnerRequestInput {
	return OwnerRequestInput{
		BusinessName:        "Barbería Norte",
		BusinessDescription: "Cortes clásicos y arreglo de barba",
		Address:             "Av. Libertad 42",
		LogoURL:             "https://example.com/logo.png",
	}
}

func TestUserService_SubmitOwnerRequest(t *testing.T) {
	userService, _, user, _ := setupUserServiceTest(t)

	request, err := userService.SubmitOwnerRequest(user.ID, ownerRequestInput())
	require.NoError(t, err)
	assert.NotZero(t, request.ID)
	assert.Equal(t, model.RequestStatusPending, request.Status)

	// One request per user, even while pending
	_, err = userService.SubmitOwnerRequest(user.ID, ownerRequestInput())
	assert.ErrorIs(t, err, ErrRequestAlreadyExists)
}

func TestUserService_SubmitOwnerRequest_OwnersRejected(t *testing.T) {
	userService, testDB, _, _ := setupUserServiceTest(t)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Role:         model.RoleOwner,
	}
	require.NoError(t, testDB.Create(owner).Error)

	_, err := userService.SubmitOwnerRequest(owner.ID, ownerRequestInput())
	assert.ErrorIs(t, err, ErrAlreadyOwner)
}

func TestUserService_ApproveOwnerRequest(t *testing.T) {
	userService, testDB, user, admin := setupUserServiceTest(t)

	request, err := userService.SubmitOwnerRequest(user.ID, ownerRequestInput())
	require.NoError(t, err)

	approved, err := userService.ApproveOwnerRequest(request.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ResolvedAt)
	require.NotNil(t, approved.ResolvedBy)
	assert.Equal(t, admin.ID, *approved.ResolvedBy)

	// The user is now an owner
	var reloaded model.User
	require.NoError(t, testDB.First(&reloaded, user.ID).Error)
	assert.Equal(t, model.RoleOwner, reloaded.Role)

	// With a draft business built from the request
	var business model.Business
	require.NoError(t, testDB.Where("owner_id = ?", user.ID).First(&business).Error)
	assert.Equal(t, "Barbería Norte", business.Name)
	assert.Equal(t, model.BusinessStatusDraft, business.Status)

	// A resolved request cannot be resolved again
	_, err = userService.ApproveOwnerRequest(request.ID, admin.ID)
	assert.ErrorIs(t, err, ErrRequestAlreadyResolved)
	_, err = userService.RejectOwnerRequest(request.ID, admin.ID)
	assert.ErrorIs(t, err, ErrRequestAlreadyResolved)
}

func TestUserService_RejectOwnerRequest(t *testing.T) {
	userService, testDB, user, admin := setupUserServiceTest(t)

	request, err := userService.SubmitOwnerRequest(user.ID, ownerRequestInput())
	require.NoError(t, err)

	rejected, err := userService.RejectOwnerRequest(request.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, rejected.Status)

	// Role untouched, no business created
	var reloaded model.User
	require.NoError(t, testDB.First(&reloaded, user.ID).Error)
	assert.Equal(t, model.RoleUser, reloaded.Role)

	var count int64
	require.NoError(t, testDB.Model(&model.Business{}).Where("owner_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUserService_ListOwnerRequests(t *testing.T) {
	userService, testDB, user, admin := setupUserServiceTest(t)

	request, err := userService.SubmitOwnerRequest(user.ID, ownerRequestInput())
	require.NoError(t, err)

	second := &model.User{Email: "second@example.com", PasswordHash: "h", Role: model.RoleUser}
	require.NoError(t, testDB.Create(second).Error)
	_, err = userService.SubmitOwnerRequest(second.ID, ownerRequestInput())
	require.NoError(t, err)

	_, err = userService.ApproveOwnerRequest(request.ID, admin.ID)
	require.NoError(t, err)

	pending, err := userService.ListOwnerRequests(model.RequestStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := userService.ListOwnerRequests("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
