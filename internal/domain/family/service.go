package family

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/resource"
	"github.com/churchconnect/admin/internal/platform/rest"
)

const basePath = "/families"

// Service mediates between the family screens and the backend families
// collection. List/detail state lives in the embedded resource store;
// the roster operations add the client-side relationship rules.
type Service struct {
	store  *resource.Store[Family]
	client *rest.Client
}

func NewService(client *rest.Client, notifier notify.Notifier, log zerolog.Logger, pageSize int) *Service {
	return &Service{
		store: resource.New[Family](client, basePath,
			resource.WithNotifier[Family](notifier),
			resource.WithLogger[Family](log.With().Str("resource", "families").Logger()),
			resource.WithLabel[Family]("family"),
			resource.WithPageSize[Family](pageSize),
		),
		client: client,
	}
}

// Store exposes the underlying resource store for view rendering and
// selection bookkeeping.
func (s *Service) Store() *resource.Store[Family] { return s.store }

// Browse loads one page of families and returns the state to render.
func (s *Service) Browse(ctx context.Context, q rest.Query) resource.Snapshot[Family] {
	s.store.FetchList(ctx, q)
	return s.store.Snapshot()
}

// Load fetches one family, including its relationship roster, into the
// detail slot.
func (s *Service) Load(ctx context.Context, id string) resource.Snapshot[Family] {
	s.store.FetchOne(ctx, id)
	return s.store.Snapshot()
}

// Create validates the form input locally, then POSTs it.
func (s *Service) Create(ctx context.Context, in Input) (Family, error) {
	if fields := in.Validate(); fields != nil {
		return Family{}, &rest.Error{
			Kind:    rest.KindValidation,
			Status:  http.StatusBadRequest,
			Message: "please correct the highlighted fields",
			Fields:  fields,
		}
	}
	return s.store.Create(ctx, in)
}

// Update validates the form input locally, then PUTs it.
func (s *Service) Update(ctx context.Context, id string, in Input) (Family, error) {
	if fields := in.Validate(); fields != nil {
		return Family{}, &rest.Error{
			Kind:    rest.KindValidation,
			Status:  http.StatusBadRequest,
			Message: "please correct the highlighted fields",
			Fields:  fields,
		}
	}
	return s.store.Update(ctx, id, in)
}

// Delete removes one family and applies the optimistic removal to the
// loaded page.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.store.Drop(id)
	return nil
}

// BulkDelete removes the given families in one batched request.
func (s *Service) BulkDelete(ctx context.Context, ids []string) error {
	return s.store.BulkRemove(ctx, ids)
}

// Members lists the relationship roster of one family.
func (s *Service) Members(ctx context.Context, familyID uuid.UUID) ([]Relationship, error) {
	page, err := rest.List[Relationship](ctx, s.client, basePath+"/"+familyID.String()+"/members", rest.Query{})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// AddMember attaches a member to a family. The head/spouse uniqueness rule
// is checked against the current roster before any create request is
// issued.
func (s *Service) AddMember(ctx context.Context, familyID uuid.UUID, in RelationshipInput) (Relationship, error) {
	if fields := in.Validate(); fields != nil {
		return Relationship{}, &rest.Error{
			Kind:    rest.KindValidation,
			Status:  http.StatusBadRequest,
			Message: "please correct the highlighted fields",
			Fields:  fields,
		}
	}

	existing, err := s.Members(ctx, familyID)
	if err != nil {
		return Relationship{}, err
	}
	if err := CheckUniqueness(existing, in.Type); err != nil {
		return Relationship{}, &rest.Error{
			Kind:    rest.KindValidation,
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Fields:  map[string]string{"relationship_type": err.Error()},
		}
	}

	return rest.Create[Relationship](ctx, s.client, basePath+"/"+familyID.String()+"/members", in)
}

// Close releases the screen state; late responses are discarded.
func (s *Service) Close() { s.store.Close() }
