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
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewAlreadyExists  = errors.New("user already reviewed this business")
	ErrReviewInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrReviewNoAppointment  = errors.New("review requires a past appointment at the business")
	ErrReviewAlreadyReplied = errors.New("review already has a reply")
)

type ReviewService interface {
	Create(userID, businessID, appointmentID uint, rating int, comment string) (*model.Review, error)
	ListByBusiness(businessID uint) ([]model.Review, error)
	Reply(ownerID, reviewID uint, content string) (*model.Review, error)
	Delete(userID, reviewID uint, isAdmin bool) error
}

type reviewService struct {
	reviewRepo      repository.ReviewRepository
	businessRepo    repository.BusinessRepository
	appointmentRepo repository.AppointmentRepository
	notifier        NotificationService
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	businessRepo repository.BusinessRepository,
	appointmentRepo repository.AppointmentRepository,
	notifier NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		businessRepo:    businessRepo,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
	}
}

// Create publica una reseña. Solo puede reseñar quien tuvo una cita en el
// negocio que ya ocurrió, y una sola vez por negocio.
func (s *reviewService) Create(userID, businessID, appointmentID uint, rating int, comment string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":     userID,
		"business_id": businessID,
		"rating":      rating,
	})

	if rating < 1 || rating > 5 {
		return nil, ErrReviewInvalidRating
	}

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	existing, err := s.reviewRepo.FindByBusinessAndUser(businessID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	// La cita debe ser del usuario, del negocio, y haber ocurrido
	appointment, err := s.appointmentRepo.FindByID(appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNoAppointment
		}
		return nil, err
	}
	if appointment.UserID != userID || appointment.BusinessID != businessID {
		return nil, ErrReviewNoAppointment
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, ErrReviewNoAppointment
	}
	if appointment.AppointmentTime.After(time.Now()) {
		return nil, ErrReviewNoAppointment
	}

	review := &model.Review{
		BusinessID:    businessID,
		UserID:        userID,
		AppointmentID: appointmentID,
		Rating:        rating,
		Comment:       comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewReview(review, business); err != nil {
			logger.Warn("Failed to notify owner of new review", map[string]interface{}{
				"business_id": businessID,
			})
		}
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": businessID,
	})
	return review, nil
}

func (s *reviewService) ListByBusiness(businessID uint) ([]model.Review, error) {
	return s.reviewRepo.FindByBusinessID(businessID)
}

// Reply añade la respuesta del dueño a una reseña de su negocio. Cada reseña
// admite una única respuesta.
func (s *reviewService) Reply(ownerID, reviewID uint, content string) (*model.Review, error) {
	logger.Info("Replying to review", map[string]interface{}{
		"review_id": reviewID,
		"owner_id":  ownerID,
	})

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	business, err := s.businessRepo.FindByID(review.BusinessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != ownerID {
		return nil, ErrNotYourBusiness
	}

	if review.ReplyContent != "" {
		return nil, ErrReviewAlreadyReplied
	}

	now := time.Now()
	review.ReplyContent = content
	review.ReplyAuthorID = &ownerID
	review.ReplyCreatedAt = &now
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete elimina una reseña: el autor puede borrar la suya, un admin
// cualquiera
func (s *reviewService) Delete(userID, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if !isAdmin && review.UserID != userID {
		return ErrReviewNotFound
	}

	return s.reviewRepo.Delete(reviewID)
}
