package overlay

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Store owns one Area and persists it through a Backend after every mutation.
// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	codec   Codec
	key     string
	area    Area
	logger  *zerolog.Logger
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCodec sets the blob codec. JSON is the default.
func WithCodec(codec Codec) StoreOption {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the logger used for load and save failures.
func WithLogger(logger *zerolog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp saves.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a store for the area persisted under key. The store starts
// with an empty area until Load is called.
func NewStore(backend Backend, key string, opts ...StoreOption) *Store {
	if key == "" {
		key = constants.DefaultArea
	}
	if backend == nil {
		backend = NewMemoryBackend()
	}
	s := &Store{
		backend: backend,
		codec:   JSONCodec{},
		key:     key,
		area:    NewArea(key),
		logger:  logging.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the backend key of the area.
func (s *Store) Key() string {
	return s.key
}

// Area returns a copy of the current area.
func (s *Store) Area() Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area.Clone()
}

// Load reads the area from the backend. It fails open: a missing blob, an
// unreadable backend or a corrupt blob all yield a fresh empty area.
func (s *Store) Load(ctx context.Context) Area {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log(ctx)
	s.area = NewArea(s.key)

	data, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.IsNotFound(err):
		log.Debug().Msg("No stored overlay, starting empty")
		return s.area.Clone()
	case err != nil:
		log.Warn().Err(err).Msg("Failed to read overlay, starting empty")
		return s.area.Clone()
	}

	area, err := s.codec.Decode(s.key, data)
	if err != nil {
		log.Warn().Err(err).
			Bool("corrupt", errors.IsCorruptOverlay(err)).
			Msg("Discarding unreadable overlay")
		return s.area.Clone()
	}
	area.ID = s.key
	s.area = area

	log.Debug().
		Int("members", len(area.Members)).
		Int("overrides", len(area.Overrides)).
		Msg("Overlay loaded")
	return s.area.Clone()
}

// Save replaces the area and persists it. Persistence failures are logged,
// never returned.
func (s *Store) Save(ctx context.Context, area Area) {
	s.mu.Lock()
	defer s.mu.Unlock()

	area = area.Clone()
	area.ID = s.key
	if area.Overrides == nil {
		area.Overrides = make(map[catalogs.ID]Entry)
	}
	s.area = area
	s.persist(ctx)
}

// SetOverride merges patch into the entry of id, creating it when absent.
func (s *Store) SetOverride(ctx context.Context, id catalogs.ID, patch Patch) error {
	if err := validateID(id); err != nil {
		return err
	}
	if patch.Name == nil && patch.Stock == nil {
		return errors.NewValidationError("patch", patch, "patch sets no field")
	}
	if patch.Name != nil {
		if err := ValidateName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Stock != nil {
		if math.IsNaN(*patch.Stock) || math.IsInf(*patch.Stock, 0) {
			return errors.NewInvalidEditValueError("stock", fmt.Sprint(*patch.Stock), "not a finite number")
		}
	}

	return s.mutate(ctx, func(a *Area) error {
		entry := a.Overrides[id]
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			entry.Name = &name
		}
		if patch.Stock != nil {
			stock := *patch.Stock
			entry.Stock = &stock
		}
		a.Overrides[id] = entry
		return nil
	})
}

// ClearOverride removes the selected overrides of id. An entry left with no
// override is deleted. Clearing an absent override is a no-op.
func (s *Store) ClearOverride(ctx context.Context, id catalogs.ID, fields Field) error {
	if err := validateID(id); err != nil {
		return err
	}
	if fields&FieldAll == 0 {
		return errors.NewValidationError("fields", fields, "no field selected")
	}

	return s.mutate(ctx, func(a *Area) error {
		entry, ok := a.Overrides[id]
		if !ok {
			return errUnchanged
		}
		if fields&FieldName != 0 {
			entry.Name = nil
		}
		if fields&FieldStock != 0 {
			entry.Stock = nil
		}
		if entry.IsEmpty() {
			delete(a.Overrides, id)
		} else {
			a.Overrides[id] = entry
		}
		return nil
	})
}

// RemoveMember drops id from the members and deletes its override. An id
// that is no longer a member but still carries an override has the override
// deleted; NotFound is returned only when there is neither.
func (s *Store) RemoveMember(ctx context.Context, id catalogs.ID) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.mutate(ctx, func(a *Area) error {
		_, overridden := a.Overrides[id]
		i := indexOf(a.Members, id)
		if i < 0 && !overridden {
			return errors.NewNotFoundError("member", string(id))
		}
		if i >= 0 {
			a.Members = append(a.Members[:i], a.Members[i+1:]...)
		}
		delete(a.Overrides, id)
		return nil
	})
}

// AddMember appends id to the members, re-including a removed item.
func (s *Store) AddMember(ctx context.Context, id catalogs.ID) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.mutate(ctx, func(a *Area) error {
		if indexOf(a.Members, id) >= 0 {
			return fmt.Errorf("member %s: %w", id, errors.ErrAlreadyExists)
		}
		a.Members = append(a.Members, id)
		return nil
	})
}

// SetOrder replaces the members with ids. The new order must hold exactly the
// current members, each once; otherwise an OrderMembershipMismatchError is
// returned and the area is left unchanged.
func (s *Store) SetOrder(ctx context.Context, ids []catalogs.ID) error {
	return s.mutate(ctx, func(a *Area) error {
		if err := CheckOrder(a.Members, ids); err != nil {
			return err
		}
		a.Members = append([]catalogs.ID(nil), ids...)
		return nil
	})
}

// Adopt seeds an empty membership with ids. It reports whether adoption
// happened; a non-empty membership is never changed.
func (s *Store) Adopt(ctx context.Context, ids []catalogs.ID) bool {
	adopted := false
	_ = s.mutate(ctx, func(a *Area) error {
		next, ok := a.Adopted(ids)
		if !ok {
			return errUnchanged
		}
		*a = next
		adopted = true
		return nil
	})
	return adopted
}

// AddLocal records an item created locally and makes it a member.
func (s *Store) AddLocal(ctx context.Context, item catalogs.Item) error {
	if err := validateID(item.ID); err != nil {
		return err
	}
	if item.Name != "" {
		if err := ValidateName(item.Name); err != nil {
			return err
		}
	}
	return s.mutate(ctx, func(a *Area) error {
		if _, ok := a.LocalItem(item.ID); ok || indexOf(a.Members, item.ID) >= 0 {
			return fmt.Errorf("item %s: %w", item.ID, errors.ErrAlreadyExists)
		}
		a.Local = append(a.Local, item)
		a.Members = append(a.Members, item.ID)
		return nil
	})
}

// Prune removes members and overrides whose id is not in present, returning
// the pruned ids. Pruning is never automatic: ids missing from a fetch stay
// in the area until Prune is called.
func (s *Store) Prune(ctx context.Context, present []catalogs.ID) []catalogs.ID {
	keep := make(map[catalogs.ID]bool, len(present))
	for _, id := range present {
		keep[id] = true
	}

	var pruned []catalogs.ID
	_ = s.mutate(ctx, func(a *Area) error {
		members := a.Members[:0]
		for _, id := range a.Members {
			if keep[id] {
				members = append(members, id)
				continue
			}
			pruned = append(pruned, id)
		}
		a.Members = members

		for id := range a.Overrides {
			if !keep[id] {
				delete(a.Overrides, id)
				if !containsID(pruned, id) {
					pruned = append(pruned, id)
				}
			}
		}
		if len(pruned) == 0 {
			return errUnchanged
		}
		return nil
	})
	return pruned
}

// errUnchanged tells mutate to skip persisting without reporting an error.
var errUnchanged = errors.New("unchanged")

// mutate applies fn to a copy of the area and commits it only on success.
func (s *Store) mutate(ctx context.Context, fn func(*Area) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.area.Clone()
	if err := fn(&next); err != nil {
		if err == errUnchanged {
			return nil
		}
		return err
	}
	s.area = next
	s.persist(ctx)
	return nil
}

// persist writes the current area. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	log := s.log(ctx)
	s.area.SavedAt = s.now().UTC()

	data, err := s.codec.Encode(s.area)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode overlay")
		return
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		log.Warn().Err(err).Msg("Failed to save overlay")
		return
	}
	log.Debug().Int("bytes", len(data)).Msg("Overlay saved")
}

func (s *Store) log(ctx context.Context) *zerolog.Logger {
	logger := logging.FromContext(ctx)
	if logger == logging.Default() {
		logger = s.logger
	}
	l := logger.With().Str("area", s.key).Str("codec", s.codec.Name()).Logger()
	return &l
}

// ValidateName checks a name override at the edit boundary.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.NewInvalidEditValueError("name", name, "name is empty")
	}
	if utf8.RuneCountInString(trimmed) > constants.MaxItemNameLength {
		return errors.NewInvalidEditValueError("name", name,
			fmt.Sprintf("longer than %d characters", constants.MaxItemNameLength))
	}
	return nil
}

func validateID(id catalogs.ID) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.NewValidationError("id", id, "item id is empty")
	}
	return nil
}

func indexOf(ids []catalogs.ID, id catalogs.ID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

func containsID(ids []catalogs.ID, id catalogs.ID) bool {
	return indexOf(ids, id) >= 0
}
