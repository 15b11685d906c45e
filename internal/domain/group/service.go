package group

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/resource"
	"github.com/churchconnect/admin/internal/platform/rest"
)

const basePath = "/groups"

// Service mediates between the group screens and the backend groups
// collection.
type Service struct {
	store  *resource.Store[Group]
	client *rest.Client
}

func NewService(client *rest.Client, notifier notify.Notifier, log zerolog.Logger, pageSize int) *Service {
	return &Service{
		store: resource.New[Group](client, basePath,
			resource.WithNotifier[Group](notifier),
			resource.WithLogger[Group](log.With().Str("resource", "groups").Logger()),
			resource.WithLabel[Group]("group"),
			resource.WithPageSize[Group](pageSize),
		),
		client: client,
	}
}

// Store exposes the underlying resource store.
func (s *Service) Store() *resource.Store[Group] { return s.store }

// Browse loads one page of groups.
func (s *Service) Browse(ctx context.Context, q rest.Query) resource.Snapshot[Group] {
	s.store.FetchList(ctx, q)
	return s.store.Snapshot()
}

// Load fetches one group into the detail slot.
func (s *Service) Load(ctx context.Context, id string) resource.Snapshot[Group] {
	s.store.FetchOne(ctx, id)
	return s.store.Snapshot()
}

func (s *Service) Create(ctx context.Context, in Input) (Group, error) {
	if fields := in.Validate(); fields != nil {
		return Group{}, validationError(fields)
	}
	return s.store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Group, error) {
	if fields := in.Validate(); fields != nil {
		return Group{}, validationError(fields)
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

// Roster lists the members of one group.
func (s *Service) Roster(ctx context.Context, groupID uuid.UUID) ([]RosterEntry, error) {
	page, err := rest.List[RosterEntry](ctx, s.client, basePath+"/"+groupID.String()+"/members", rest.Query{})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
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
