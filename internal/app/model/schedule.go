package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ScheduleDay plantilla de horario para un día de la semana.
// El horario completo de un negocio son exactamente 7 filas, una por día.
type ScheduleDay struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID uint      `gorm:"not null;index:idx_business_weekday,unique" json:"business_id"`
	Business   *Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	// 0=domingo .. 6=sábado (time.Weekday)
	Weekday int `gorm:"not null;index:idx_business_weekday,unique" json:"weekday"`

	IsActive            bool   `gorm:"default:false" json:"is_active"`                     // día activo
	OpenTime            string `gorm:"type:varchar(5)" json:"open_time"`                   // hora de apertura "HH:MM" (hora local del negocio)
	CloseTime           string `gorm:"type:varchar(5)" json:"close_time"`                  // hora de cierre "HH:MM"
	SlotDurationMinutes int    `gorm:"default:30" json:"slot_duration_minutes"`            // duración de cada turno (>0)
	CapacityPerSlot     int    `gorm:"default:1" json:"capacity_per_slot"`                 // reservas simultáneas por turno (>=1)
}

func (ScheduleDay) TableName() string {
	return "schedule_days"
}

// Nombres de los días tal y como viajan en el API (claves del objeto schedule)
var WeekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayByName devuelve el índice (0=domingo) de un nombre de día del API.
func WeekdayByName(name string) (int, bool) {
	for i, n := range WeekdayNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Validate comprueba las invariantes de un día activo. Los días inactivos no
// se validan: sus horas se ignoran al generar turnos.
func (d *ScheduleDay) Validate() error {
	if d.Weekday < 0 || d.Weekday > 6 {
		return fmt.Errorf("weekday fuera de rango: %d", d.Weekday)
	}
	if !d.IsActive {
		return nil
	}
	if _, err := ParseClock(d.OpenTime); err != nil {
		return fmt.Errorf("open_time inválido %q: %w", d.OpenTime, err)
	}
	if _, err := ParseClock(d.CloseTime); err != nil {
		return fmt.Errorf("close_time inválido %q: %w", d.CloseTime, err)
	}
	if d.OpenTime >= d.CloseTime {
		return fmt.Errorf("open_time %q debe ser anterior a close_time %q", d.OpenTime, d.CloseTime)
	}
	if d.SlotDurationMinutes <= 0 {
		return fmt.Errorf("slot_duration_minutes debe ser positivo: %d", d.SlotDurationMinutes)
	}
	if d.CapacityPerSlot < 1 {
		return fmt.Errorf("capacity_per_slot debe ser al menos 1: %d", d.CapacityPerSlot)
	}
	return nil
}

// ParseClock convierte "HH:MM" (24h) a minutos desde medianoche. Las cuatro
// posiciones tienen que ser dígitos: nada de "9:30" ni restos tras el minuto.
func ParseClock(s string) (int, error) {
	errFormat := fmt.Errorf("formato de hora inválido, se espera HH:MM")

	if len(s) != 5 || s[2] != ':' {
		return 0, errFormat
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, errFormat
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, errFormat
	}
	return h*60 + m, nil
}

// FormatClock convierte minutos desde medianoche a "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotStarts parte el intervalo [open, close) en turnos consecutivos de
// duración fija y devuelve sus horas de inicio en minutos desde medianoche.
// El último turno parcial se descarta: solo se ofrecen turnos completos.
// Un día inactivo no tiene turnos.
func (d *ScheduleDay) SlotStarts() []int {
	if !d.IsActive || d.SlotDurationMinutes <= 0 {
		return nil
	}

	open, err := ParseClock(d.OpenTime)
	if err != nil {
		return nil
	}
	closeAt, err := ParseClock(d.CloseTime)
	if err != nil {
		return nil
	}

	var starts []int
	for cur := open; cur+d.SlotDurationMinutes <= closeAt; cur += d.SlotDurationMinutes {
		starts = append(starts, cur)
	}
	return starts
}
