package pledge

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/resource"
	"github.com/churchconnect/admin/internal/platform/rest"
)

const basePath = "/pledges"

// Service mediates between the pledge screens and the backend pledges
// collection.
type Service struct {
	store *resource.Store[Pledge]
}

func NewService(client *rest.Client, notifier notify.Notifier, log zerolog.Logger, pageSize int) *Service {
	return &Service{
		store: resource.New[Pledge](client, basePath,
			resource.WithNotifier[Pledge](notifier),
			resource.WithLogger[Pledge](log.With().Str("resource", "pledges").Logger()),
			resource.WithLabel[Pledge]("pledge"),
			resource.WithPageSize[Pledge](pageSize),
		),
	}
}

// Store exposes the underlying resource store.
func (s *Service) Store() *resource.Store[Pledge] { return s.store }

// Browse loads one page of pledges.
func (s *Service) Browse(ctx context.Context, q rest.Query) resource.Snapshot[Pledge] {
	s.store.FetchList(ctx, q)
	return s.store.Snapshot()
}

// Load fetches one pledge into the detail slot.
func (s *Service) Load(ctx context.Context, id string) resource.Snapshot[Pledge] {
	s.store.FetchOne(ctx, id)
	return s.store.Snapshot()
}

func (s *Service) Create(ctx context.Context, in Input) (Pledge, error) {
	if fields := in.Validate(); fields != nil {
		return Pledge{}, validationError(fields)
	}
	return s.store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Pledge, error) {
	if fields := in.Validate(); fields != nil {
		return Pledge{}, validationError(fields)
	}
	return s.store.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.store.Drop(id)
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) error {
	return s.store.BulkRemove(ctx, ids)
}

// Close releases the screen state.
func (s *Service) Close() { s.store.Close() }

func validationError(fields map[string]string) *rest.Error {
	return &rest.Error{
		Kind:    rest.KindValidation,
		Status:  http.StatusBadRequest,
		Message: "please correct the highlighted fields",
		Fields:  fields,
	}
}
