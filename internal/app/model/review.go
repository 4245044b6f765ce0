package model

import (
	"time"

	"gorm.io/gorm"
)

// Review reseña de un usuario sobre un negocio donde tuvo una cita.
// Un usuario solo puede reseñar cada negocio una vez.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID uint      `gorm:"not null;index:idx_business_user_review,unique" json:"business_id"`
	Business   *Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	UserID uint  `gorm:"not null;index:idx_business_user_review,unique" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Cita que habilita la reseña
	AppointmentID uint         `gorm:"not null" json:"appointment_id"`
	Appointment   *Appointment `gorm:"foreignKey:AppointmentID" json:"-"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // puntuación 1..5
	Comment string `gorm:"type:text" json:"comment"`

	// Respuesta del dueño (opcional, una sola)
	ReplyContent   string     `gorm:"type:text" json:"reply_content,omitempty"`
	ReplyAuthorID  *uint      `json:"reply_author_id,omitempty"`
	ReplyCreatedAt *time.Time `json:"reply_created_at,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
