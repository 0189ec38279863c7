package services

import (
	"time"

	"catalogcli/internal/config"
)

// HealthStatus is the payload of the health endpoint
type HealthStatus struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	Time         time.Time `json:"time"`
	AIConfigured bool      `json:"ai_configured"`
}

// HealthService reports process health
type HealthService struct {
	cfg       *config.Config
	version   string
	startTime time.Time
}

// NewHealthService creates a health service
func NewHealthService(cfg *config.Config, version string) *HealthService {
	return &HealthService{
		cfg:       cfg,
		version:   version,
		startTime: time.Now(),
	}
}

// Health returns the current health status
func (s *HealthService) Health() HealthStatus {
	return HealthStatus{
		Status:       "healthy",
		Version:      s.version,
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
		Time:         time.Now().UTC(),
		AIConfigured: s.cfg.AI.APIKey != "",
	}
}
