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

func setupNotificationServiceTest(t *testing.T) (NotificationService, *gorm.DB, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, nil)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Role:         model.RoleOwner,
	}
	require.NoError(t, testDB.Create(owner).Error)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	return notificationService, testDB, owner, other
}

func createTestNotification(t *testing.T, testDB *gorm.DB, userID uint, notifType model.NotificationType) *model.Notification {
	t.Helper()
	notification := &model.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   "Aviso",
		Content: "Contenido del aviso",
	}
	require.NoError(t, testDB.Create(notification).Error)
	return notification
}

func TestNotificationService_GetNotifications(t *testing.T) {
	notificationService, testDB, owner, other := setupNotificationServiceTest(t)

	for i := 0; i < 3; i++ {
		createTestNotification(t, testDB, owner.ID, model.NotificationTypeNewBooking)
	}
	createTestNotification(t, testDB, owner.ID, model.NotificationTypeNewReview)
	createTestNotification(t, testDB, other.ID, model.NotificationTypeRequestResolved)

	notifications, total, unread, err := notificationService.GetNotifications(owner.ID, nil, nil, 1, 20)
	require.NoError(t, err)
	assert.Len(t, notifications, 4)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(4), unread)

	// Filtrar por tipo
	reviewType := model.NotificationTypeNewReview
	notifications, total, _, err = notificationService.GetNotifications(owner.ID, &reviewType, nil, 1, 20)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, int64(1), total)

	// Paginación
	notifications, total, _, err = notificationService.GetNotifications(owner.ID, nil, nil, 2, 3)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, int64(4), total)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	notificationService, testDB, owner, other := setupNotificationServiceTest(t)

	notification := createTestNotification(t, testDB, owner.ID, model.NotificationTypeNewBooking)

	// Otro usuario no puede tocarla
	_, err := notificationService.MarkAsRead(notification.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotificationNotYours)

	read, err := notificationService.MarkAsRead(notification.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err := notificationService.GetUnreadCount(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// Marcar dos veces es inofensivo
	read, err = notificationService.MarkAsRead(notification.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = notificationService.MarkAsRead(99999, owner.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	notificationService, testDB, owner, other := setupNotificationServiceTest(t)

	createTestNotification(t, testDB, owner.ID, model.NotificationTypeNewBooking)
	createTestNotification(t, testDB, owner.ID, model.NotificationTypeNewReview)
	createTestNotification(t, testDB, other.ID, model.NotificationTypeRequestResolved)

	require.NoError(t, notificationService.MarkAllAsRead(owner.ID))

	unread, err := notificationService.GetUnreadCount(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// El otro usuario conserva las suyas sin leer
	unread, err = notificationService.GetUnreadCount(other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestNotificationService_Delete(t *testing.T) {
	notificationService, testDB, owner, other := setupNotificationServiceTest(t)

	notification := createTestNotification(t, testDB, owner.ID, model.NotificationTypeNewBooking)

	err := notificationService.DeleteNotification(notification.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotificationNotYours)

	require.NoError(t, notificationService.DeleteNotification(notification.ID, owner.ID))

	err = notificationService.DeleteNotification(notification.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_NotifyRequestResolved(t *testing.T) {
	notificationService, _, owner, _ := setupNotificationServiceTest(t)

	require.NoError(t, notificationService.NotifyRequestResolved(owner.ID, "Barbería Central", true))
	require.NoError(t, notificationService.NotifyRequestResolved(owner.ID, "Barbería Central", false))

	notifications, total, _, err := notificationService.GetNotifications(owner.ID, nil, nil, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	assert.Equal(t, model.NotificationTypeRequestResolved, notifications[0].Type)
	assert.Contains(t, notifications[0].Content, "Barbería Central")
}
