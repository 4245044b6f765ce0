package repository

import (
	"time"

	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

// SlotCount citas confirmadas agrupadas por inicio de turno
type SlotCount struct {
	AppointmentTime time.Time
	Count           int64
}

type AppointmentRepository interface {
	CreateConfirmed(appointment *model.Appointment, capacity int) (bool, error)
	FindByID(id uint) (*model.Appointment, error)
	FindByCode(code string) (*model.Appointment, error)
	FindByUserID(userID uint) ([]model.Appointment, error)
	FindByBusinessID(businessID uint, status string) ([]model.Appointment, error)
	CountConfirmedInRange(businessID uint, from, to time.Time) ([]SlotCount, error)
	Update(appointment *model.Appointment) error
	MarkCompletedBefore(cutoff time.Time) (int64, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// slotLockKey identifica un turno para el lock consultivo: minuto Unix del
// inicio del turno, que cabe en int4.
func slotLockKey(t time.Time) int32 {
	return int32(t.Unix() / 60)
}

// CreateConfirmed intenta reservar un turno respetando la capacidad.
// La admisión es una escritura condicional: el INSERT solo inserta si el
// recuento de citas confirmadas en ese turno sigue por debajo de la
// capacidad, evaluado por la base de datos en la misma sentencia. En
// Postgres con READ COMMITTED dos de estas sentencias concurrentes no ven
// las filas sin confirmar de la otra y ambas pasarían el recuento, así que
// la transacción toma antes un advisory lock por (negocio, turno) que
// serializa la comprobación y la escritura. Con N peticiones concurrentes
// sobre capacidad k se admiten exactamente k.
// Devuelve false si el turno ya estaba completo.
func (r *appointmentRepository) CreateConfirmed(appointment *model.Appointment, capacity int) (bool, error) {
	logger.Debug("Creating confirmed appointment in database", map[string]interface{}{
		"business_id":      appointment.BusinessID,
		"user_id":          appointment.UserID,
		"appointment_time": appointment.AppointmentTime,
		"capacity":         capacity,
	})

	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)",
				int32(appointment.BusinessID), slotLockKey(appointment.AppointmentTime)).Error
			if err != nil {
				return err
			}
		}

		now := time.Now()
		result := tx.Exec(`
			INSERT INTO appointments (created_at, updated_at, code, business_id, user_id, appointment_time, status)
			SELECT ?, ?, ?, ?, ?, ?, ?
			WHERE (
				SELECT COUNT(*) FROM appointments
				WHERE business_id = ?
				  AND appointment_time = ?
				  AND status = ?
				  AND deleted_at IS NULL
			) < ?`,
			now, now, appointment.Code, appointment.BusinessID, appointment.UserID,
			appointment.AppointmentTime, string(model.AppointmentStatusConfirmed),
			appointment.BusinessID, appointment.AppointmentTime,
			string(model.AppointmentStatusConfirmed), capacity,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true

		// Recuperar la fila insertada para devolverla completa (ID, timestamps)
		return tx.Where("code = ?", appointment.Code).First(appointment).Error
	})
	if err != nil {
		logger.Error("Failed to create confirmed appointment in database", err, map[string]interface{}{
			"business_id": appointment.BusinessID,
			"user_id":     appointment.UserID,
		})
		return false, err
	}

	if !created {
		logger.Debug("Slot at capacity, appointment rejected", map[string]interface{}{
			"business_id":      appointment.BusinessID,
			"appointment_time": appointment.AppointmentTime,
			"capacity":         capacity,
		})
		return false, nil
	}

	logger.Debug("Confirmed appointment created in database", map[string]interface{}{
		"appointment_id":   appointment.ID,
		"code":             appointment.Code,
		"business_id":      appointment.BusinessID,
		"appointment_time": appointment.AppointmentTime,
	})
	return true, nil
}

func (r *appointmentRepository) FindByID(id uint) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.db.Preload("Business").Preload("User").First(&appointment, id).Error
	if err != nil {
		logger.Error("Failed to find appointment by ID in database", err, map[string]interface{}{
			"appointment_id": id,
		})
		return nil, err
	}

	return &appointment, nil
}

func (r *appointmentRepository) FindByCode(code string) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.db.Preload("Business").Where("code = ?", code).First(&appointment).Error
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}

func (r *appointmentRepository) FindByUserID(userID uint) ([]model.Appointment, error) {
	logger.Debug("Finding appointments by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var appointments []model.Appointment
	err := r.db.Preload("Business").
		Where("user_id = ?", userID).
		Order("appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		logger.Error("Failed to find appointments by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return appointments, nil
}

func (r *appointmentRepository) FindByBusinessID(businessID uint, status string) ([]model.Appointment, error) {
	logger.Debug("Finding appointments by business ID in database", map[string]interface{}{
		"business_id": businessID,
		"status":      status,
	})

	query := r.db.Preload("User").
		Where("business_id = ?", businessID).
		Order("appointment_time ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []model.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		logger.Error("Failed to find appointments by business ID in database", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	return appointments, nil
}

// CountConfirmedInRange agrupa las citas confirmadas de un negocio por inicio
// de turno dentro del intervalo [from, to). Se usa para descartar turnos
// completos al calcular la disponibilidad de un día.
func (r *appointmentRepository) CountConfirmedInRange(businessID uint, from, to time.Time) ([]SlotCount, error) {
	var counts []SlotCount
	err := r.db.Model(&model.Appointment{}).
		Select("appointment_time, COUNT(*) as count").
		Where("business_id = ? AND status = ? AND appointment_time >= ? AND appointment_time < ?",
			businessID, model.AppointmentStatusConfirmed, from, to).
		Group("appointment_time").
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to count confirmed appointments in database", err, map[string]interface{}{
			"business_id": businessID,
			"from":        from,
			"to":          to,
		})
		return nil, err
	}

	return counts, nil
}

func (r *appointmentRepository) Update(appointment *model.Appointment) error {
	logger.Debug("Updating appointment in database", map[string]interface{}{
		"appointment_id": appointment.ID,
		"status":         appointment.Status,
	})

	if err := r.db.Save(appointment).Error; err != nil {
		logger.Error("Failed to update appointment in database", err, map[string]interface{}{
			"appointment_id": appointment.ID,
		})
		return err
	}

	return nil
}

// MarkCompletedBefore marca como completadas las citas confirmadas cuyo turno
// ya pasó. Devuelve cuántas filas cambiaron.
func (r *appointmentRepository) MarkCompletedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Model(&model.Appointment{}).
		Where("status = ? AND appointment_time < ?", model.AppointmentStatusConfirmed, cutoff).
		Update("status", model.AppointmentStatusCompleted)
	if result.Error != nil {
		logger.Error("Failed to mark past appointments as completed", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
