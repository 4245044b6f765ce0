package repository

import (
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	FindByBusinessID(businessID uint) ([]model.ScheduleDay, error)
	FindByBusinessAndWeekday(businessID uint, weekday int) (*model.ScheduleDay, error)
	ReplaceForBusiness(businessID uint, days []model.ScheduleDay) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindByBusinessID(businessID uint) ([]model.ScheduleDay, error) {
	var days []model.ScheduleDay
	err := r.db.Where("business_id = ?", businessID).
		Order("weekday ASC").
		Find(&days).Error
	if err != nil {
		logger.Error("Failed to find schedule by business ID in database", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	return days, nil
}

func (r *scheduleRepository) FindByBusinessAndWeekday(businessID uint, weekday int) (*model.ScheduleDay, error) {
	var day model.ScheduleDay
	err := r.db.Where("business_id = ? AND weekday = ?", businessID, weekday).
		First(&day).Error
	if err != nil {
		return nil, err
	}

	return &day, nil
}

// ReplaceForBusiness sustituye el horario semanal completo de un negocio.
// Borra las filas anteriores y crea las nuevas en una sola transacción para
// que ningún lector vea un horario a medias.
func (r *scheduleRepository) ReplaceForBusiness(businessID uint, days []model.ScheduleDay) error {
	logger.Debug("Replacing weekly schedule in database", map[string]interface{}{
		"business_id": businessID,
		"days":        len(days),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("business_id = ?", businessID).
			Delete(&model.ScheduleDay{}).Error; err != nil {
			return err
		}

		for i := range days {
			days[i].ID = 0
			days[i].BusinessID = businessID
		}
		if len(days) > 0 {
			if err := tx.Create(&days).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to replace weekly schedule in database", err, map[string]interface{}{
			"business_id": businessID,
		})
		return err
	}

	logger.Debug("Weekly schedule replaced in database", map[string]interface{}{
		"business_id": businessID,
		"days":        len(days),
	})
	return nil
}
