package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/servibook/servibook-backend/internal/app/model"
	"gorm.io/gorm"
)

// NotificationRepository almacén de notificaciones
type NotificationRepository interface {
	// Notification operations
	CreateNotification(notification *model.Notification) error
	GetNotificationByID(id uint) (*model.Notification, error)
	GetNotifications(userID uint, notifType *model.NotificationType, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(userID uint) error
	DeleteNotification(id uint) error

	// NotificationSettings operations
	GetNotificationSettings(userID uint) (*model.NotificationSettings, error)
	CreateNotificationSettings(settings *model.NotificationSettings) error
	UpdateNotificationSettings(settings *model.NotificationSettings) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructor del almacén de notificaciones
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateNotification crea una notificación
func (r *notificationRepository) CreateNotification(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

// GetNotificationByID busca una notificación por ID
func (r *notificationRepository) GetNotificationByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetNotifications lista las notificaciones de un usuario
func (r *notificationRepository) GetNotifications(
	userID uint,
	notifType *model.NotificationType,
	isRead *bool,
	limit, offset int,
) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)

	// Filtro por tipo
	if notifType != nil {
		query = query.Where("type = ?", *notifType)
	}

	// Filtro por estado de lectura
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Paginación
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// GetUnreadCount cuenta las notificaciones sin leer
func (r *notificationRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marca una notificación como leída
func (r *notificationRepository) MarkAsRead(id uint) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllAsRead marca todas las notificaciones de un usuario como leídas
func (r *notificationRepository) MarkAllAsRead(userID uint) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// DeleteNotification elimina una notificación
func (r *notificationRepository) DeleteNotification(id uint) error {
	return r.db.Delete(&model.Notification{}, id).Error
}

// GetNotificationSettings devuelve las preferencias del usuario,
// creándolas con los valores por defecto si aún no existen
func (r *notificationRepository) GetNotificationSettings(userID uint) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.NotificationSettings{
			UserID:              userID,
			BookingNotification: true,
			ReviewNotification:  true,
			FollowedCategories:  pq.StringArray{},
		}
		if err := r.CreateNotificationSettings(&settings); err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// CreateNotificationSettings crea las preferencias de un usuario
func (r *notificationRepository) CreateNotificationSettings(settings *model.NotificationSettings) error {
	return r.db.Create(settings).Error
}

// UpdateNotificationSettings actualiza las preferencias de un usuario
func (r *notificationRepository) UpdateNotificationSettings(settings *model.NotificationSettings) error {
	return r.db.Save(settings).Error
}
