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
	ErrRequestNotFound        = errors.New("request not found")
	ErrRequestAlreadyExists   = errors.New("user already has an owner request")
	ErrRequestAlreadyResolved = errors.New("request already resolved")
	ErrAlreadyOwner           = errors.New("user is already an owner")
)

// OwnerRequestInput datos de la solicitud para operar un negocio
type OwnerRequestInput struct {
	BusinessName        string
	BusinessDescription string
	Address             string
	LogoURL             string
}

type UserService interface {
	SubmitOwnerRequest(userID uint, input OwnerRequestInput) (*model.OwnerRequest, error)
	GetMyOwnerRequest(userID uint) (*model.OwnerRequest, error)
	ListOwnerRequests(status string) ([]model.OwnerRequest, error)
	ApproveOwnerRequest(requestID, adminID uint) (*model.OwnerRequest, error)
	RejectOwnerRequest(requestID, adminID uint) (*model.OwnerRequest, error)
}

type userService struct {
	userRepo     repository.UserRepository
	requestRepo  repository.OwnerRequestRepository
	businessRepo repository.BusinessRepository
	notifier     NotificationService
}

func NewUserService(
	userRepo repository.UserRepository,
	requestRepo repository.OwnerRequestRepository,
	businessRepo repository.BusinessRepository,
	notifier NotificationService,
) UserService {
	return &userService{
		userRepo:     userRepo,
		requestRepo:  requestRepo,
		businessRepo: businessRepo,
		notifier:     notifier,
	}
}

// SubmitOwnerRequest registra la solicitud de un usuario para ser dueño.
// Cada usuario tiene como mucho una solicitud, resuelta o no.
func (s *userService) SubmitOwnerRequest(userID uint, input OwnerRequestInput) (*model.OwnerRequest, error) {
	logger.Info("Submitting owner request", map[string]interface{}{
		"user_id":       userID,
		"business_name": input.BusinessName,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == model.RoleOwner || user.Role == model.RoleAdmin {
		return nil, ErrAlreadyOwner
	}

	existing, err := s.requestRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Owner request already exists", map[string]interface{}{
			"user_id": userID,
			"status":  existing.Status,
		})
		return nil, ErrRequestAlreadyExists
	}

	request := &model.OwnerRequest{
		UserID:              userID,
		BusinessName:        input.BusinessName,
		BusinessDescription: input.BusinessDescription,
		Address:             input.Address,
		LogoURL:             input.LogoURL,
		Status:              model.RequestStatusPending,
	}

	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	logger.Info("Owner request submitted", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    userID,
	})
	return request, nil
}

func (s *userService) GetMyOwnerRequest(userID uint) (*model.OwnerRequest, error) {
	request, err := s.requestRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *userService) ListOwnerRequests(status string) ([]model.OwnerRequest, error) {
	return s.requestRepo.FindByStatus(status)
}

// ApproveOwnerRequest aprueba la solicitud: el usuario pasa a ser dueño y se
// crea su negocio en borrador con los datos de la solicitud. El dueño debe
// completar el horario y publicarlo para que sea visible.
func (s *userService) ApproveOwnerRequest(requestID, adminID uint) (*model.OwnerRequest, error) {
	logger.Info("Approving owner request", map[string]interface{}{
		"request_id": requestID,
		"admin_id":   adminID,
	})

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrRequestAlreadyResolved
	}

	user, err := s.userRepo.FindByID(request.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = model.RequestStatusApproved
	request.ResolvedAt = &now
	request.ResolvedBy = &adminID
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	user.Role = model.RoleOwner
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	business := &model.Business{
		OwnerID:     user.ID,
		Name:        request.BusinessName,
		Description: request.BusinessDescription,
		Address:     request.Address,
		LogoURL:     request.LogoURL,
		Status:      model.BusinessStatusDraft,
	}
	if err := s.businessRepo.Create(business); err != nil {
		logger.Error("Failed to create business for approved request", err, map[string]interface{}{
			"request_id": requestID,
			"user_id":    user.ID,
		})
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRequestResolved(user.ID, request.BusinessName, true); err != nil {
			logger.Warn("Failed to notify request approval", map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	logger.Info("Owner request approved", map[string]interface{}{
		"request_id":  requestID,
		"user_id":     user.ID,
		"business_id": business.ID,
	})
	return request, nil
}

// RejectOwnerRequest rechaza la solicitud sin tocar el rol del usuario
func (s *userService) RejectOwnerRequest(requestID, adminID uint) (*model.OwnerRequest, error) {
	logger.Info("Rejecting owner request", map[string]interface{}{
		"request_id": requestID,
		"admin_id":   adminID,
	})

	request, err := s.requestRepo.FindByID(requestID)
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
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRequestResolved(request.UserID, request.BusinessName, false); err != nil {
			logger.Warn("Failed to notify request rejection", map[string]interface{}{
				"user_id": request.UserID,
			})
		}
	}

	return request, nil
}
