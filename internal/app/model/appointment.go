package model

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string // estado de la cita

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // confirmada (ocupa capacidad)
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // cancelada (libera capacidad)
	AppointmentStatusCompleted AppointmentStatus = "completed" // completada (ya pasó)
)

type Appointment struct {
	ID        uint           `gorm:"primarykey" json:"id"` // ID de la cita
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Código de reserva que se muestra al usuario en la confirmación
	Code string `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`

	BusinessID uint      `gorm:"not null;index:idx_appointments_slot" json:"business_id"`
	Business   *Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"business,omitempty"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`

	// Inicio del turno reservado. Invariante: el número de citas confirmadas
	// con el mismo (business_id, appointment_time) nunca supera el
	// capacity_per_slot del día correspondiente.
	AppointmentTime time.Time `gorm:"not null;index:idx_appointments_slot" json:"appointment_time"`

	Status      AppointmentStatus `gorm:"type:varchar(20);default:'confirmed';index" json:"status"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"` // fecha de cancelación
}

func (Appointment) TableName() string {
	return "appointments"
}
