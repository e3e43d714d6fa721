package health

import (
	"context"

	"feedbackboard/internal/utils"
)

type Prober interface {
	Check(ctx context.Context) utils.HealthStatus
}

type Service interface {
	Check(ctx context.Context) utils.HealthStatus
}

type service struct {
	probers []Prober
}

// NewService merges the status of every prober into a single report.
func NewService(probers ...Prober) Service {
	return &service{probers: probers}
}

func (s *service) Check(ctx context.Context) utils.HealthStatus {
	var merged utils.HealthStatus
	for i, p := range s.probers {
		st := p.Check(ctx)
		if i == 0 {
			merged = st
			continue
		}
		merged.Services = append(merged.Services, st.Services...)
		if st.Status != utils.StatusHealthy {
			merged.Status = st.Status
		}
	}
	if merged.Status == "" {
		merged.Status = utils.StatusHealthy
	}
	return merged
}
