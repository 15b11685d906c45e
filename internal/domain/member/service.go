package member

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/resource"
	"github.com/churchconnect/admin/internal/platform/rest"
)

const basePath = "/members"

// Service mediates between the member screens and the backend members
// collection.
type Service struct {
	store *resource.Store[Member]
}

func NewService(client *rest.Client, notifier notify.Notifier, log zerolog.Logger, pageSize int) *Service {
	return &Service{
		store: resource.New[Member](client, basePath,
			resource.WithNotifier[Member](notifier),
			resource.WithLogger[Member](log.With().Str("resource", "members").Logger()),
			resource.WithLabel[Member]("member"),
			resource.WithPageSize[Member](pageSize),
		),
	}
}

// Store exposes the underlying resource store.
func (s *Service) Store() *resource.Store[Member] { return s.store }

// Browse loads one page of members.
func (s *Service) Browse(ctx context.Context, q rest.Query) resource.Snapshot[Member] {
	s.store.FetchList(ctx, q)
	return s.store.Snapshot()
}

// Load fetches one member into the detail slot.
func (s *Service) Load(ctx context.Context, id string) resource.Snapshot[Member] {
	s.store.FetchOne(ctx, id)
	return s.store.Snapshot()
}

func (s *Service) Create(ctx context.Context, in Input) (Member, error) {
	if fields := in.Validate(); fields != nil {
		return Member{}, validationError(fields)
	}
	return s.store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Member, error) {
	if fields := in.Validate(); fields != nil {
		return Member{}, validationError(fields)
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
