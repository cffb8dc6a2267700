// Package pins manages the durable bookmark registry. Pins are independent
// of the workflow: they survive stage invalidation and project deletion.
package pins

import (
	"context"
	"errors"
	"sync"

	"contentos/internal/gateway"
	"contentos/internal/models"
)

// ErrEmptyContent rejects pins with nothing in them.
var ErrEmptyContent = errors.New("pin content must not be empty")

// Registry fronts pin persistence and keeps an in-memory mirror for cheap
// duplicate checks. The mirror is updated only from gateway results, never
// speculatively, so it always reflects what was actually stored.
type Registry struct {
	store *gateway.DocStore

	mu     sync.Mutex
	mirror map[string]*models.PinnedItem
}

// NewRegistry builds the registry.
func NewRegistry(store *gateway.DocStore) *Registry {
	return &Registry{
		store:  store,
		mirror: make(map[string]*models.PinnedItem),
	}
}

// Add stores a new pin. The gateway assigns id and timestamp.
func (r *Registry) Add(ctx context.Context, pin models.PinnedItem) (gateway.Result[*models.PinnedItem], error) {
	if pin.Content == nil {
		return gateway.Result[*models.PinnedItem]{}, ErrEmptyContent
	}
	pin.ID = "" // ids are minted by the gateway

	res, err := r.store.SavePin(ctx, &pin)
	if err != nil {
		return gateway.Result[*models.PinnedItem]{}, err
	}

	r.mu.Lock()
	r.mirror[res.Value.ID] = res.Value
	r.mu.Unlock()

	return res, nil
}

// List returns a user's pins, optionally filtered by item type.
func (r *Registry) List(ctx context.Context, userID string, itemType models.PinItemType) (gateway.Result[[]*models.PinnedItem], error) {
	res, err := r.store.ListPins(ctx, userID, itemType)
	if err != nil {
		return res, err
	}

	r.mu.Lock()
	for _, pin := range res.Value {
		r.mirror[pin.ID] = pin
	}
	r.mu.Unlock()

	return res, nil
}

// Remove deletes a pin.
func (r *Registry) Remove(ctx context.Context, id string) (gateway.Result[struct{}], error) {
	res, err := r.store.DeletePin(ctx, id)
	if err != nil {
		return res, err
	}

	r.mu.Lock()
	delete(r.mirror, id)
	r.mu.Unlock()

	return res, nil
}

// Has reports whether a pin id is known to the mirror.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.mirror[id]
	return ok
}
