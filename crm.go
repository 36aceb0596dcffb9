package crm

import "github.com/goliatone/go-crm/service"

// Re-export the service package entry point so consumers can do `crm.New(...)`
// without importing internal wiring helpers.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
	Queries  = service.Queries
)

// New constructs the go-crm runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
