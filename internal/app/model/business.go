package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StringArray tipo personalizado para guardar listas de strings como JSON
type StringArray []string

// Value implementa database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implementa database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan StringArray")
	}

	return json.Unmarshal(bytes, s)
}

type BusinessStatus string // estado del ciclo de vida del negocio

const (
	BusinessStatusDraft     BusinessStatus = "draft"     // borrador: no visible, no reservable
	BusinessStatusPublished BusinessStatus = "published" // publicado: visible y reservable (irreversible)
)

type Business struct {
	ID          uint           `gorm:"primarykey" json:"id"` // ID del negocio
	OwnerID     uint           `gorm:"uniqueIndex;not null" json:"owner_id"` // dueño (un negocio por dueño)
	Owner       *User          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`        // nombre del negocio
	Description string         `gorm:"type:text;not null" json:"description"`         // descripción
	Address     string         `gorm:"type:varchar(150);not null" json:"address"`     // dirección
	LogoURL     string         `gorm:"type:text" json:"logo_url"`                     // logo (URL externa)
	Photos      StringArray    `gorm:"type:text" json:"photos"`                       // fotos (URLs externas)
	Status      BusinessStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"` // draft, published
	PublishedAt *time.Time     `json:"published_at,omitempty"`                        // fecha de publicación

	// Categorías del negocio (muchos a muchos)
	Categories []Category `gorm:"many2many:business_categories;" json:"categories,omitempty"`

	// Horario semanal (7 filas, una por día)
	Schedule []ScheduleDay `gorm:"foreignKey:BusinessID" json:"schedule,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

// IsPublished indica si el negocio acepta reservas
func (b *Business) IsPublished() bool {
	return b.Status == BusinessStatusPublished
}

// CanPublish valida la condición para publicar: el horario debe existir y
// tener al menos un día activo con apertura anterior al cierre.
func (b *Business) CanPublish() bool {
	for _, day := range b.Schedule {
		if day.IsActive && day.OpenTime < day.CloseTime {
			return true
		}
	}
	return false
}
