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
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

// CategoryRequestInput solicitud de categoría nueva de un dueño
type CategoryRequestInput struct {
	CategoryName string
	Reason       string
	EvidenceURL  string
}

type CategoryService interface {
	List() ([]model.Category, error)
	Create(name string) (*model.Category, error)
	Delete(id uint) error

	SubmitRequest(ownerID uint, input CategoryRequestInput) (*model.CategoryRequest, error)
	ListMyRequests(ownerID uint) ([]model.CategoryRequest, error)
	ListRequests(status string) ([]model.CategoryRequest, error)
	ApproveRequest(requestID, adminID uint) (*model.CategoryRequest, error)
	RejectRequest(requestID, adminID uint) (*model.CategoryRequest, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	notifier     NotificationService
}

func NewCategoryService(categoryRepo repository.CategoryRepository, notifier NotificationService) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		notifier:     notifier,
	}
}

func (s *categoryService) List() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

// Create crea una categoría directamente (solo admin)
func (s *categoryService) Create(name string) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name": name,
	})

	existing, err := s.categoryRepo.FindByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryAlreadyExists
	}

	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}

// SubmitRequest registra la propuesta de categoría de un dueño. A diferencia
// de las solicitudes de dueño, un mismo dueño puede proponer varias
// categorías distintas.
func (s *categoryService) SubmitRequest(ownerID uint, input CategoryRequestInput) (*model.CategoryRequest, error) {
	logger.Info("Submitting category request", map[string]interface{}{
		"owner_id":      ownerID,
		"category_name": input.CategoryName,
	})

	// Si la categoría ya existe no tiene sentido solicitarla
	existing, err := s.categoryRepo.FindByName(input.CategoryName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryAlreadyExists
	}

	request := &model.CategoryRequest{
		OwnerID:      ownerID,
		CategoryName: input.CategoryName,
		Reason:       input.Reason,
		EvidenceURL:  input.EvidenceURL,
		Status:       model.RequestStatusPending,
	}
	if err := s.categoryRepo.CreateRequest(request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *categoryService) ListMyRequests(ownerID uint) ([]model.CategoryRequest, error) {
	return s.categoryRepo.FindRequestsByOwnerID(ownerID)
}

func (s *categoryService) ListRequests(status string) ([]model.CategoryRequest, error) {
	return s.categoryRepo.FindRequestsByStatus(status)
}

// ApproveRequest aprueba la propuesta y promociona el nombre a categoría.
// Si otra solicitud con el mismo nombre se aprobó antes, la categoría ya
// existe y la aprobación se limita a marcar la solicitud.
func (s *categoryService) ApproveRequest(requestID, adminID uint) (*model.CategoryRequest, error) {
	logger.Info("Approving category request", map[string]interface{}{
		"request_id": requestID,
		"admin_id":   adminID,
	})

	request, err := s.categoryRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrRequestAlreadyResolved
	}

	existing, err := s.categoryRepo.FindByName(request.CategoryName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing == nil {
		category := &model.Category{Name: request.CategoryName}
		if err := s.categoryRepo.Create(category); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	request.Status = model.RequestStatusApproved
	request.ResolvedAt = &now
	request.ResolvedBy = &adminID
	if err := s.categoryRepo.UpdateRequest(request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRequestResolved(request.OwnerID, request.CategoryName, true); err != nil {
			logger.Warn("Failed to notify category request approval", map[string]interface{}{
				"owner_id": request.OwnerID,
			})
		}
	}

	logger.Info("Category request approved", map[string]interface{}{
		"request_id":    requestID,
		"category_name": request.CategoryName,
	})
	return request, nil
}

func (s *categoryService) RejectRequest(requestID, adminID uint) (*model.CategoryRequest, error) {
	logger.Info("Rejecting category request", map[string]interface{}{
		"request_id": requestID,
		"admin_id":   adminID,
	})

	request, err := s.categoryRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrRequestAlreadyResolved
	}

	now := time.Now()
	request.Status = model.RequestStatusRejected
	request.ResolvedAt = &now
	request.ResolvedBy = &adminID
	if err := s.categoryRepo.UpdateRequest(request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRequestResolved(request.OwnerID, request.CategoryName, false); err != nil {
			logger.Warn("Failed to notify category request rejection", map[string]interface{}{
				"owner_id": request.OwnerID,
			})
		}
	}

	return request, nil
}
