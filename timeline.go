package timeline

import "github.com/goliatone/go-timeline/service"

// Re-export the service package entry point so consumers can do
// `timeline.New(...)` without importing internal wiring helpers.
type (
	Service = service.Service
	Config  = service.Config
	Queries = service.Queries
)

// New constructs the go-timeline runtime using the provided configuration.
func New(cfg Config) (*Service, error) {
	return service.New(cfg)
}
