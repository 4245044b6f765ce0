package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeNewBooking       NotificationType = "new_booking"       // nueva cita en mi negocio
	NotificationTypeBookingCancelled NotificationType = "booking_cancelled" // cita cancelada
	NotificationTypeRequestResolved  NotificationType = "request_resolved"  // solicitud aprobada/rechazada
	NotificationTypeNewReview        NotificationType = "new_review"        // nueva reseña en mi negocio
)

// Notification notificación para un usuario (normalmente el dueño del negocio)
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Usuario destinatario
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	// Contenido
	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	// Estado
	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// Datos relacionados (nullable)
	RelatedBusinessID    *uint `gorm:"index" json:"related_business_id,omitempty"`
	RelatedAppointmentID *uint `gorm:"index" json:"related_appointment_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSettings preferencias de notificación por usuario
type NotificationSettings struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Notificaciones de citas (dueños)
	BookingNotification bool `gorm:"default:true" json:"booking_notification"`

	// Notificaciones de reseñas (dueños)
	ReviewNotification bool `gorm:"default:true" json:"review_notification"`

	// Categorías que el usuario sigue para descubrir negocios nuevos
	FollowedCategories pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"followed_categories"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}
