package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

type HealthStatus struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Services  []ServiceStatus `json:"services"`
}

type ServiceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthChecker struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Timeout time.Duration
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: StatusHealthy, Timestamp: time.Now().UTC()}

	if h.DB != nil {
		status.add(h.probe(ctx, "PostgreSQL", func(ctx context.Context) error {
			sqlDB, err := h.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}))
	}
	if h.Redis != nil {
		status.add(h.probe(ctx, "Redis", func(ctx context.Context) error {
			return h.Redis.Ping(ctx).Err()
		}))
	}
	return status
}

func (h *HealthChecker) probe(ctx context.Context, name string, ping func(context.Context) error) ServiceStatus {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return ServiceStatus{Name: name, Status: "down", Message: err.Error()}
	}
	return ServiceStatus{Name: name, Status: "up"}
}

func (s *HealthStatus) add(svc ServiceStatus) {
	if svc.Status != "up" {
		s.Status = StatusDegraded
	}
	s.Services = append(s.Services, svc)
}
