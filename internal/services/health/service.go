package health

import (
	"context"
	"database/sql"
	"time"
)

// ServiceName identifies this API in health payloads.
const ServiceName = "packaging-ai-api"

const pingTimeout = 2 * time.Second

// Status is the health payload.
type Status struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Check reports overall health. It is healthy unless a configured database
// fails to answer a ping.
func (s *Service) Check(ctx context.Context) (Status, bool) {
	st := Status{Status: "healthy", Service: ServiceName}
	if s == nil || s.DB == nil {
		return st, true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.Status = "degraded"
		st.Database = "unreachable"
		return st, false
	}
	st.Database = "ok"
	return st, true
}
