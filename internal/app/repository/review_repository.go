package repository

import (
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReviewStats agregado de reseñas de un negocio
type ReviewStats struct {
	AverageRating float64
	ReviewCount   int64
}

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByBusinessID(businessID uint) ([]model.Review, error)
	FindByBusinessAndUser(businessID, userID uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
	GetStats(businessID uint) (*ReviewStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"business_id": review.BusinessID,
		"user_id":     review.UserID,
		"rating":      review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"business_id": review.BusinessID,
			"user_id":     review.UserID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": review.BusinessID,
	})
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepository) FindByBusinessID(businessID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by business ID in database", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) FindByBusinessAndUser(businessID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	logger.Debug("Updating review in database", map[string]interface{}{
		"review_id": review.ID,
	})

	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}

	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}

	return nil
}

func (r *reviewRepository) GetStats(businessID uint) (*ReviewStats, error) {
	var stats ReviewStats
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
		Where("business_id = ?", businessID).
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to get review stats in database", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	return &stats, nil
}
