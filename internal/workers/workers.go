package workers

import (
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
)

// Workers aggregates every background job of the service.
type Workers struct {
	jobs []Worker
}

func NewWorkers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) *Workers {
	return &Workers{
		jobs: []Worker{
			NewSweeper(services.AttendanceLedger, cfg.Attendance, logger),
		},
	}
}

// Start launches all jobs; the first failure stops the rollout and is
// returned.
func (w *Workers) Start() error {
	for _, job := range w.jobs {
		if err := job.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop halts all jobs.
func (w *Workers) Stop() {
	for _, job := range w.jobs {
		job.Stop()
	}
}
