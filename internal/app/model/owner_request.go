package model

import (
	"time"

	"gorm.io/gorm"
)

// OwnerRequest solicitud de un usuario para operar un negocio en la plataforma.
// Una vez resuelta (approved/rejected) no puede volver a pending.
type OwnerRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"` // solicitante (1:1)
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Datos del negocio propuesto
	BusinessName        string `gorm:"type:varchar(100);not null" json:"business_name"`
	BusinessDescription string `gorm:"type:text;not null" json:"business_description"`
	Address             string `gorm:"type:varchar(150);not null" json:"address"`
	LogoURL             string `gorm:"type:text" json:"logo_url,omitempty"`

	Status     string     `gorm:"type:varchar(20);default:'pending';index" json:"status"` // pending, approved, rejected
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`                                  // fecha de resolución
	ResolvedBy *uint      `json:"resolved_by,omitempty"`                                  // admin que resolvió
}

func (OwnerRequest) TableName() string {
	return "owner_requests"
}

// Estados de las solicitudes (dueño y categoría)
const (
	RequestStatusPending  = "pending"  // pendiente de revisión
	RequestStatusApproved = "approved" // aprobada
	RequestStatusRejected = "rejected" // rechazada
)
