package server

import (
	"github.com/raysh454/configlens/internal/app"
	"github.com/raysh454/configlens/internal/logging"
)

type Config struct {
	// ServerAddr is the HTTP listen address for the API server.
	ServerAddr string

	// AppConfig configures the orchestrator. Nil means app.DefaultConfig().
	AppConfig *app.Config

	// Logger is optional; a stdout logger is used when nil.
	Logger logging.Logger
}
