package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/servibook/servibook-backend/internal/app/service"
	"github.com/servibook/servibook-backend/pkg/logger"
)

// AppointmentScheduler barrido diario de citas: las confirmadas cuyo turno ya
// pasó se marcan como completadas para que dejen de aparecer como pendientes.
type AppointmentScheduler struct {
	cron               *cron.Cron
	appointmentService service.AppointmentService
}

// NewAppointmentScheduler crea el planificador de citas
func NewAppointmentScheduler(appointmentService service.AppointmentService) *AppointmentScheduler {
	return &AppointmentScheduler{
		cron:               cron.New(),
		appointmentService: appointmentService,
	}
}

// Start programa el barrido
func (s *AppointmentScheduler) Start() error {
	// Cada día a las 3:00, hora de poca actividad
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled appointment sweep", nil)

		count, err := s.appointmentService.CompletePast()
		if err != nil {
			logger.Error("Failed to complete past appointments", err)
			return
		}

		logger.Info("Appointment sweep finished", map[string]interface{}{
			"completed": count,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for appointment sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Appointment scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop detiene el planificador
func (s *AppointmentScheduler) Stop() {
	logger.Info("Stopping appointment scheduler...", nil)
	s.cron.Stop()
	logger.Info("Appointment scheduler stopped", nil)
}
