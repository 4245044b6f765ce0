package repository

import (
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

// BusinessFilter filtros del listado público de negocios
type BusinessFilter struct {
	CategoryID uint
	Search     string
}

type BusinessRepository interface {
	Create(business *model.Business) error
	Update(business *model.Business) error
	Delete(id uint) error
	FindByID(id uint) (*model.Business, error)
	FindByIDWithDetails(id uint) (*model.Business, error)
	FindByOwnerID(ownerID uint) (*model.Business, error)
	FindPublished(filter BusinessFilter) ([]model.Business, error)
	ReplaceCategories(business *model.Business, categories []model.Category) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name":     business.Name,
		"owner_id": business.OwnerID,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name":     business.Name,
			"owner_id": business.OwnerID,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
	})
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	logger.Debug("Updating business in database", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
		"status":      business.Status,
	})

	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}

	return nil
}

func (r *businessRepository) Delete(id uint) error {
	logger.Debug("Deleting business from database", map[string]interface{}{
		"business_id": id,
	})

	if err := r.db.Delete(&model.Business{}, id).Error; err != nil {
		logger.Error("Failed to delete business from database", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}

	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, id).Error; err != nil {
		logger.Error("Failed to find business by ID in database", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}

	return &business, nil
}

func (r *businessRepository) FindByIDWithDetails(id uint) (*model.Business, error) {
	logger.Debug("Finding business by ID with details", map[string]interface{}{
		"business_id": id,
	})

	var business model.Business
	err := r.db.Preload("Categories").
		Preload("Schedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Preload("Owner").
		First(&business, id).Error
	if err != nil {
		logger.Error("Failed to find business by ID with details", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}

	return &business, nil
}

func (r *businessRepository) FindByOwnerID(ownerID uint) (*model.Business, error) {
	var business model.Business
	err := r.db.Preload("Categories").
		Preload("Schedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Where("owner_id = ?", ownerID).
		First(&business).Error
	if err != nil {
		return nil, err
	}

	return &business, nil
}

func (r *businessRepository) FindPublished(filter BusinessFilter) ([]model.Business, error) {
	logger.Debug("Finding published businesses", map[string]interface{}{
		"category_id": filter.CategoryID,
		"search":      filter.Search,
	})

	query := r.db.Model(&model.Business{}).
		Preload("Categories").
		Where("businesses.status = ?", model.BusinessStatusPublished)

	if filter.CategoryID != 0 {
		query = query.
			Joins("JOIN business_categories bc ON bc.business_id = businesses.id").
			Where("bc.category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("businesses.name LIKE ?", like)
	}

	var businesses []model.Business
	if err := query.Order("businesses.name ASC").Find(&businesses).Error; err != nil {
		logger.Error("Failed to find published businesses", err, map[string]interface{}{
			"category_id": filter.CategoryID,
		})
		return nil, err
	}

	logger.Debug("Published businesses found", map[string]interface{}{
		"count": len(businesses),
	})
	return businesses, nil
}

func (r *businessRepository) ReplaceCategories(business *model.Business, categories []model.Category) error {
	logger.Debug("Replacing business categories in database", map[string]interface{}{
		"business_id": business.ID,
		"count":       len(categories),
	})

	if err := r.db.Model(business).Association("Categories").Replace(categories); err != nil {
		logger.Error("Failed to replace business categories in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}

	return nil
}
