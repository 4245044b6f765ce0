package repository

import (
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

type OwnerRequestRepository interface {
	Create(request *model.OwnerRequest) error
	FindByID(id uint) (*model.OwnerRequest, error)
	FindByUserID(userID uint) (*model.OwnerRequest, error)
	FindByStatus(status string) ([]model.OwnerRequest, error)
	Update(request *model.OwnerRequest) error
}

type ownerRequestRepository struct {
	db *gorm.DB
}

func NewOwnerRequestRepository(db *gorm.DB) OwnerRequestRepository {
	return &ownerRequestRepository{db: db}
}

func (r *ownerRequestRepository) Create(request *model.OwnerRequest) error {
	logger.Debug("Creating owner request in database", map[string]interface{}{
		"user_id":       request.UserID,
		"business_name": request.BusinessName,
	})

	if err := r.db.Create(request).Error; err != nil {
		logger.Error("Failed to create owner request in database", err, map[string]interface{}{
			"user_id": request.UserID,
		})
		return err
	}

	logger.Debug("Owner request created in database", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    request.UserID,
	})
	return nil
}

func (r *ownerRequestRepository) FindByID(id uint) (*model.OwnerRequest, error) {
	var request model.OwnerRequest
	err := r.db.Preload("User").First(&request, id).Error
	if err != nil {
		logger.Error("Failed to find owner request by ID in database", err, map[string]interface{}{
			"request_id": id,
		})
		return nil, err
	}

	return &request, nil
}

func (r *ownerRequestRepository) FindByUserID(userID uint) (*model.OwnerRequest, error) {
	var request model.OwnerRequest
	err := r.db.Where("user_id = ?", userID).First(&request).Error
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *ownerRequestRepository) FindByStatus(status string) ([]model.OwnerRequest, error) {
	logger.Debug("Finding owner requests by status in database", map[string]interface{}{
		"status": status,
	})

	var requests []model.OwnerRequest
	query := r.db.Preload("User").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		logger.Error("Failed to find owner requests by status in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("Owner requests found in database", map[string]interface{}{
		"status": status,
		"count":  len(requests),
	})
	return requests, nil
}

func (r *ownerRequestRepository) Update(request *model.OwnerRequest) error {
	logger.Debug("Updating owner request in database", map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
	})

	if err := r.db.Save(request).Error; err != nil {
		logger.Error("Failed to update owner request in database", err, map[string]interface{}{
			"request_id": request.ID,
		})
		return err
	}

	return nil
}
