package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // rol del usuario

const (
	RoleUser  UserRole = "user"  // usuario normal (puede reservar citas)
	RoleOwner UserRole = "owner" // dueño de negocio
	RoleAdmin UserRole = "admin" // administrador de la plataforma
)

type User struct {
	ID                uint           `gorm:"primarykey" json:"id"`                        // ID del usuario
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`           // correo electrónico
	PasswordHash      string         `gorm:"not null" json:"-"`                           // hash de la contraseña
	FullName          string         `json:"full_name"`                                   // nombre completo
	PhoneNumber       string         `json:"phone_number"`                                // teléfono
	ProfilePictureURL string         `json:"profile_picture_url"`                         // foto de perfil (URL externa)
	Role              UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // rol
	CreatedAt         time.Time      `json:"created_at"`                                  // fecha de registro
	UpdatedAt         time.Time      `json:"updated_at"`                                  // última modificación
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                              // borrado lógico

	OwnerRequest *OwnerRequest `gorm:"foreignKey:UserID" json:"owner_request,omitempty"` // solicitud para ser dueño (1:1)
	Business     *Business     `gorm:"foreignKey:OwnerID" json:"business,omitempty"`     // negocio del dueño (1:1)
}

func (User) TableName() string {
	return "users"
}
