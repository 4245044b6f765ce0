package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/websocket"
	"github.com/servibook/servibook-backend/pkg/logger"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationNotYours = errors.New("notification belongs to another user")
)

// NotificationService servicio de notificaciones
type NotificationService interface {
	// Notification operations
	GetNotifications(userID uint, notifType *model.NotificationType, isRead *bool, page, pageSize int) ([]model.Notification, int64, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) (*model.Notification, error)
	MarkAllAsRead(userID uint) error
	DeleteNotification(notificationID, userID uint) error

	// NotificationSettings operations
	GetNotificationSettings(userID uint) (*model.NotificationSettings, error)
	UpdateNotificationSettings(userID uint, req *UpdateNotificationSettingsRequest) (*model.NotificationSettings, error)

	// Notification creation helpers
	NotifyNewBooking(appointment *model.Appointment, business *model.Business) error
	NotifyBookingCancelled(appointment *model.Appointment, business *model.Business) error
	NotifyRequestResolved(userID uint, requestName string, approved bool) error
	NotifyNewReview(review *model.Review, business *model.Business) error
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  *websocket.Hub
}

// UpdateNotificationSettingsRequest cambios en las preferencias de notificación
type UpdateNotificationSettingsRequest struct {
	BookingNotification *bool     `json:"booking_notification"`
	ReviewNotification  *bool     `json:"review_notification"`
	FollowedCategories  *[]string `json:"followed_categories"`
}

// NewNotificationService constructor del servicio de notificaciones
func NewNotificationService(repo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		repo: repo,
		hub:  hub,
	}
}

// GetNotifications lista las notificaciones de un usuario
func (s *notificationService) GetNotifications(
	userID uint,
	notifType *model.NotificationType,
	isRead *bool,
	page, pageSize int,
) ([]model.Notification, int64, int64, error) {
	// Valores por defecto de paginación
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize

	notifications, total, err := s.repo.GetNotifications(userID, notifType, isRead, pageSize, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	unreadCount, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unreadCount, nil
}

// GetUnreadCount cuenta las notificaciones sin leer
func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.repo.GetUnreadCount(userID)
}

// MarkAsRead marca una notificación como leída
func (s *notificationService) MarkAsRead(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.repo.GetNotificationByID(notificationID)
	if err != nil {
		return nil, ErrNotificationNotFound
	}

	if notification.UserID != userID {
		return nil, ErrNotificationNotYours
	}

	// Ya leída, devolver tal cual
	if notification.IsRead {
		return notification, nil
	}

	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

// MarkAllAsRead marca todas las notificaciones como leídas
func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

// DeleteNotification elimina una notificación del usuario
func (s *notificationService) DeleteNotification(notificationID, userID uint) error {
	notification, err := s.repo.GetNotificationByID(notificationID)
	if err != nil {
		return ErrNotificationNotFound
	}

	if notification.UserID != userID {
		return ErrNotificationNotYours
	}

	return s.repo.DeleteNotification(notificationID)
}

// GetNotificationSettings devuelve las preferencias del usuario
func (s *notificationService) GetNotificationSettings(userID uint) (*model.NotificationSettings, error) {
	return s.repo.GetNotificationSettings(userID)
}

// UpdateNotificationSettings actualiza las preferencias del usuario
func (s *notificationService) UpdateNotificationSettings(
	userID uint,
	req *UpdateNotificationSettingsRequest,
) (*model.NotificationSettings, error) {
	// Cargar (o crear) las preferencias actuales
	settings, err := s.repo.GetNotificationSettings(userID)
	if err != nil {
		return nil, err
	}

	if req.BookingNotification != nil {
		settings.BookingNotification = *req.BookingNotification
	}
	if req.ReviewNotification != nil {
		settings.ReviewNotification = *req.ReviewNotification
	}
	if req.FollowedCategories != nil {
		settings.FollowedCategories = pq.StringArray(*req.FollowedCategories)
	}

	if err := s.repo.UpdateNotificationSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// NotifyNewBooking avisa al dueño de una cita nueva en su negocio
func (s *notificationService) NotifyNewBooking(appointment *model.Appointment, business *model.Business) error {
	// Respetar las preferencias del dueño
	settings, err := s.repo.GetNotificationSettings(business.OwnerID)
	if err != nil {
		logger.Warn("Failed to load notification settings, using defaults", map[string]interface{}{
			"user_id": business.OwnerID,
		})
	} else if !settings.BookingNotification {
		return nil
	}

	notification := &model.Notification{
		UserID:               business.OwnerID,
		Type:                 model.NotificationTypeNewBooking,
		Title:                "Nueva cita en tu negocio",
		Content:              fmt.Sprintf("Nueva cita en %s el %s", business.Name, appointment.AppointmentTime.Format("02/01/2006 15:04")),
		RelatedBusinessID:    &business.ID,
		RelatedAppointmentID: &appointment.ID,
	}

	return s.deliver(notification)
}

// NotifyBookingCancelled avisa al dueño de una cita cancelada
func (s *notificationService) NotifyBookingCancelled(appointment *model.Appointment, business *model.Business) error {
	settings, err := s.repo.GetNotificationSettings(business.OwnerID)
	if err == nil && !settings.BookingNotification {
		return nil
	}

	notification := &model.Notification{
		UserID:               business.OwnerID,
		Type:                 model.NotificationTypeBookingCancelled,
		Title:                "Cita cancelada",
		Content:              fmt.Sprintf("Se canceló la cita del %s en %s", appointment.AppointmentTime.Format("02/01/2006 15:04"), business.Name),
		RelatedBusinessID:    &business.ID,
		RelatedAppointmentID: &appointment.ID,
	}

	return s.deliver(notification)
}

// NotifyRequestResolved avisa al solicitante de la resolución de su solicitud
func (s *notificationService) NotifyRequestResolved(userID uint, requestName string, approved bool) error {
	content := fmt.Sprintf("Tu solicitud %q fue rechazada", requestName)
	if approved {
		content = fmt.Sprintf("Tu solicitud %q fue aprobada", requestName)
	}

	notification := &model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeRequestResolved,
		Title:   "Solicitud resuelta",
		Content: content,
	}

	return s.deliver(notification)
}

// NotifyNewReview avisa al dueño de una reseña nueva en su negocio
func (s *notificationService) NotifyNewReview(review *model.Review, business *model.Business) error {
	settings, err := s.repo.GetNotificationSettings(business.OwnerID)
	if err == nil && !settings.ReviewNotification {
		return nil
	}

	notification := &model.Notification{
		UserID:            business.OwnerID,
		Type:              model.NotificationTypeNewReview,
		Title:             "Nueva reseña en tu negocio",
		Content:           fmt.Sprintf("Tu negocio %s recibió una reseña de %d estrellas", business.Name, review.Rating),
		RelatedBusinessID: &business.ID,
	}

	return s.deliver(notification)
}

// deliver persiste la notificación y la empuja por WebSocket si el usuario
// está conectado. La persistencia manda: un fallo del push no es un error.
func (s *notificationService) deliver(notification *model.Notification) error {
	if err := s.repo.CreateNotification(notification); err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": notification.UserID,
			"type":    notification.Type,
		})
		return err
	}

	if s.hub != nil {
		unreadCount, _ := s.repo.GetUnreadCount(notification.UserID)
		wsMessage := map[string]interface{}{
			"type":         "new_notification",
			"unread_count": unreadCount,
			"notification": notification,
		}
		if err := s.hub.SendNotificationToUser(notification.UserID, wsMessage); err != nil {
			logger.Warn("Failed to push notification over WebSocket", map[string]interface{}{
				"user_id": notification.UserID,
			})
		}
	}

	return nil
}
