package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// DashboardService aggregates ticket statistics for the staff dashboard.
type DashboardService struct {
	store repository.Store
}

// NewDashboardService constructs the service.
func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// DashboardStats is the staff overview payload.
type DashboardStats struct {
	Total      int
	ByStatus   map[domain.TicketStatus]int
	ByPriority map[domain.TicketPriority]int
	// PastSLA is always zero until SLA evaluation lands.
	// TODO: compute from sla_hours once the evaluation job exists.
	PastSLA int
}

// Stats returns ticket totals grouped by status and priority. Staff only.
func (s *DashboardService) Stats(ctx context.Context, actor *domain.User) (*DashboardStats, error) {
	if !authz.IsStaff(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}

	byStatus, err := s.store.Tickets().CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.store.Tickets().CountByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &DashboardStats{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
		PastSLA:    0,
	}, nil
}
