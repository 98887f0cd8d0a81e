package service

import (
	"context"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
)

type Services struct {
	AuthService       AuthService
	Matcher           Matcher
	EnrollmentService EnrollmentService
	SessionService    SessionService
	AttendanceLedger  AttendanceLedger
}

func NewServices(ctx context.Context, storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	matcher, err := NewMatcher(ctx, storages.EmbeddingRepository, cfg.Recognition, logger)
	if err != nil {
		return nil, err
	}

	authService := NewAuthService(storages.UserRepository, cfg.Auth, logger)
	ledger := NewAttendanceLedger(storages.AttendanceRepository, cfg.Attendance, logger)

	return &Services{
		AuthService:       authService,
		Matcher:           matcher,
		EnrollmentService: NewEnrollmentService(storages.UserRepository, storages.EmbeddingRepository, matcher, logger),
		SessionService:    NewSessionService(authService, matcher, ledger, cfg.Auth, logger),
		AttendanceLedger:  ledger,
	}, nil
}
