package handler

import (
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/handler/http"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, logger),
	}, nil
}
