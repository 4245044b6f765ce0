package service

import (
	"errors"
	"time"

	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound     = errors.New("business not found")
	ErrBusinessNotPublished = errors.New("business is not published")
	ErrScheduleRequired     = errors.New("publishing requires at least one active schedule day")
	ErrNotYourBusiness      = errors.New("business belongs to another owner")
	ErrCategoryNotFound     = errors.New("category not found")
)

// BusinessUpdateInput campos editables del negocio. Los punteros nil se
// dejan como están.
type BusinessUpdateInput struct {
	Name        *string
	Description *string
	Address     *string
	LogoURL     *string
	Photos      *[]string
	CategoryIDs *[]uint
}

// BusinessDetail negocio publicado con sus agregados de reseñas
type BusinessDetail struct {
	Business      *model.Business
	AverageRating float64
	ReviewCount   int64
}

type BusinessService interface {
	GetMyBusiness(ownerID uint) (*model.Business, error)
	UpdateMyBusiness(ownerID, businessID uint, input BusinessUpdateInput) (*model.Business, error)
	Publish(ownerID, businessID uint) (*model.Business, error)
	ListPublished(filter repository.BusinessFilter) ([]model.Business, error)
	GetPublishedByID(businessID uint) (*BusinessDetail, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

func (s *businessService) GetMyBusiness(ownerID uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// UpdateMyBusiness edita los datos del negocio del dueño. Funciona igual en
// borrador y publicado: publicar congela el estado, no los datos.
func (s *businessService) UpdateMyBusiness(ownerID, businessID uint, input BusinessUpdateInput) (*model.Business, error) {
	logger.Info("Updating business", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
	})

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if business.OwnerID != ownerID {
		logger.Warn("Business update rejected: wrong owner", map[string]interface{}{
			"business_id": businessID,
			"owner_id":    ownerID,
		})
		return nil, ErrNotYourBusiness
	}

	if input.Name != nil {
		business.Name = *input.Name
	}
	if input.Description != nil {
		business.Description = *input.Description
	}
	if input.Address != nil {
		business.Address = *input.Address
	}
	if input.LogoURL != nil {
		business.LogoURL = *input.LogoURL
	}
	if input.Photos != nil {
		business.Photos = model.StringArray(*input.Photos)
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	if input.CategoryIDs != nil {
		categories, err := s.categoryRepo.FindByIDs(*input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if len(categories) != len(*input.CategoryIDs) {
			return nil, ErrCategoryNotFound
		}
		if err := s.businessRepo.ReplaceCategories(business, categories); err != nil {
			return nil, err
		}
	}

	return s.businessRepo.FindByIDWithDetails(businessID)
}

// Publish pasa el negocio de borrador a publicado. La transición es de un
// solo sentido y exige un horario con al menos un día activo cuya apertura
// sea anterior al cierre; repetirla sobre un negocio publicado no hace nada.
func (s *businessService) Publish(ownerID, businessID uint) (*model.Business, error) {
	logger.Info("Publishing business", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
	})

	business, err := s.businessRepo.FindByIDWithDetails(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if business.OwnerID != ownerID {
		return nil, ErrNotYourBusiness
	}

	if business.IsPublished() {
		return business, nil
	}

	if !business.CanPublish() {
		logger.Warn("Publish rejected: schedule incomplete", map[string]interface{}{
			"business_id":   businessID,
			"schedule_days": len(business.Schedule),
		})
		return nil, ErrScheduleRequired
	}

	now := time.Now()
	business.Status = model.BusinessStatusPublished
	business.PublishedAt = &now
	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	logger.Info("Business published", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
	})
	return business, nil
}

func (s *businessService) ListPublished(filter repository.BusinessFilter) ([]model.Business, error) {
	return s.businessRepo.FindPublished(filter)
}

// GetPublishedByID detalle público de un negocio. Los borradores no existen
// para el público.
func (s *businessService) GetPublishedByID(businessID uint) (*BusinessDetail, error) {
	business, err := s.businessRepo.FindByIDWithDetails(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if !business.IsPublished() {
		return nil, ErrBusinessNotFound
	}

	stats, err := s.reviewRepo.GetStats(businessID)
	if err != nil {
		return nil, err
	}

	return &BusinessDetail{
		Business:      business,
		AverageRating: stats.AverageRating,
		ReviewCount:   stats.ReviewCount,
	}, nil
}
