package model

import (
	"time"

	"gorm.io/gorm"
)

// Category categoría de negocios. El nombre es único en toda la plataforma.
// Se crea directamente por un admin o al aprobar una CategoryRequest.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"` // nombre único
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryRequest solicitud de un dueño para crear una nueva categoría.
// Al aprobarse se promociona a Category.
type CategoryRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID uint  `gorm:"not null;index" json:"owner_id"` // dueño solicitante
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CategoryName string `gorm:"type:varchar(50);not null" json:"category_name"` // nombre propuesto
	Reason       string `gorm:"type:varchar(500);not null" json:"reason"`       // justificación
	EvidenceURL  string `gorm:"type:text" json:"evidence_url,omitempty"`        // URL de evidencia (opcional)

	Status     string     `gorm:"type:varchar(20);default:'pending';index" json:"status"` // pending, approved, rejected
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy *uint      `json:"resolved_by,omitempty"` // admin que resolvió
}

func (CategoryRequest) TableName() string {
	return "category_requests"
}
