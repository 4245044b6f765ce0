package repository

import (
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByIDs(ids []uint) ([]model.Category, error)
	FindByName(name string) (*model.Category, error)
	Delete(id uint) error

	CreateRequest(request *model.CategoryRequest) error
	FindRequestByID(id uint) (*model.CategoryRequest, error)
	FindRequestsByStatus(status string) ([]model.CategoryRequest, error)
	FindRequestsByOwnerID(ownerID uint) ([]model.CategoryRequest, error)
	UpdateRequest(request *model.CategoryRequest) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) FindByIDs(ids []uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories by IDs in database", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	return nil
}

func (r *categoryRepository) CreateRequest(request *model.CategoryRequest) error {
	logger.Debug("Creating category request in database", map[string]interface{}{
		"owner_id":      request.OwnerID,
		"category_name": request.CategoryName,
	})

	if err := r.db.Create(request).Error; err != nil {
		logger.Error("Failed to create category request in database", err, map[string]interface{}{
			"owner_id": request.OwnerID,
		})
		return err
	}

	return nil
}

func (r *categoryRepository) FindRequestByID(id uint) (*model.CategoryRequest, error) {
	var request model.CategoryRequest
	if err := r.db.Preload("Owner").First(&request, id).Error; err != nil {
		logger.Error("Failed to find category request by ID in database", err, map[string]interface{}{
			"request_id": id,
		})
		return nil, err
	}

	return &request, nil
}

func (r *categoryRepository) FindRequestsByStatus(status string) ([]model.CategoryRequest, error) {
	var requests []model.CategoryRequest
	query := r.db.Preload("Owner").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		logger.Error("Failed to find category requests by status in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	return requests, nil
}

func (r *categoryRepository) FindRequestsByOwnerID(ownerID uint) ([]model.CategoryRequest, error) {
	var requests []model.CategoryRequest
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		logger.Error("Failed to find category requests by owner in database", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	return requests, nil
}

func (r *categoryRepository) UpdateRequest(request *model.CategoryRequest) error {
	logger.Debug("Updating category request in database", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
	})

	if err := r.db.Save(request).Error; err != nil {
		logger.Error("Failed to update category request in database", err, map[string]interface{}{
			"request_id": request.ID,
		})
		return err
	}

	return nil
}
