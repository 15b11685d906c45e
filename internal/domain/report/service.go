package report

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/resource"
	"github.com/churchconnect/admin/internal/platform/rest"
)

const basePath = "/reports"

// Service mediates between the reporting screens and the backend. Reports
// are read-only here: the backend generates them, the admin browses and
// exports them.
type Service struct {
	store  *resource.Store[Report]
	client *rest.Client
}

func NewService(client *rest.Client, notifier notify.Notifier, log zerolog.Logger, pageSize int) *Service {
	return &Service{
		store: resource.New[Report](client, basePath,
			resource.WithNotifier[Report](notifier),
			resource.WithLogger[Report](log.With().Str("resource", "reports").Logger()),
			resource.WithLabel[Report]("report"),
			resource.WithPageSize[Report](pageSize),
		),
		client: client,
	}
}

// Store exposes the underlying resource store.
func (s *Service) Store() *resource.Store[Report] { return s.store }

// Browse loads one page of reports.
func (s *Service) Browse(ctx context.Context, q rest.Query) resource.Snapshot[Report] {
	s.store.FetchList(ctx, q)
	return s.store.Snapshot()
}

// Load fetches one report, rows included, into the detail slot.
func (s *Service) Load(ctx context.Context, id string) resource.Snapshot[Report] {
	s.store.FetchOne(ctx, id)
	return s.store.Snapshot()
}

// Dashboard fetches the aggregate stats for the landing screen. Unlike the
// list screens this is a direct fetch with no retained state; the dashboard
// re-fetches on every visit.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	return rest.Get[DashboardStats](ctx, s.client, basePath+"/dashboard")
}

// Close releases the screen state.
func (s *Service) Close() { s.store.Close() }
