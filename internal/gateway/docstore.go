package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contentos/internal/database"
	"contentos/internal/models"
)

const docService = "documents"

// LocalIDPrefix marks identifiers minted by the fallback tier. Documents
// created offline keep these ids for their lifetime; there is no re-keying
// when the remote tier recovers.
const LocalIDPrefix = "local-"

// DocStore is the document persistence gateway. Every operation probes the
// remote tier first with a short budget; a failed probe routes the operation
// to the embedded local store. Probe results are never cached, so recovery
// is picked up by the very next operation.
type DocStore struct {
	mongo        *database.MongoDB
	local        *database.LocalStore
	probeTimeout time.Duration
}

// NewDocStore builds the gateway. mongo may be nil when no remote tier is
// configured; local must always be present.
func NewDocStore(mongo *database.MongoDB, local *database.LocalStore, probeTimeout time.Duration) *DocStore {
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	return &DocStore{mongo: mongo, local: local, probeTimeout: probeTimeout}
}

// Available probes the remote tier within the probe budget.
func (d *DocStore) Available(ctx context.Context) bool {
	if d.mongo == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()
	if err := d.mongo.Ping(probeCtx); err != nil {
		recordProbeFailure(docService)
		return false
	}
	return true
}

// SaveProject persists a project, assigning an id and timestamps on first
// save. The returned project reflects what was actually stored.
func (d *DocStore) SaveProject(ctx context.Context, p *models.Project) (Result[*models.Project], error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if d.Available(ctx) {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		err := d.replaceOne(ctx, database.CollectionProjects, p.ID, p)
		if err == nil {
			d.mirrorProject(p)
			recordOperation(docService, "save_project", TierRemote)
			return remoteResult(p), nil
		}
		log.Printf("⚠️ Remote project save failed, degrading to local store: %v", err)
	}

	if p.ID == "" {
		p.ID = LocalIDPrefix + uuid.NewString()
	}
	if err := d.putLocal(database.CollectionProjects, p.ID, p); err != nil {
		return Result[*models.Project]{}, fmt.Errorf("local project save failed: %w", err)
	}
	recordOperation(docService, "save_project", TierFallback)
	return fallbackResult(p, "Saved to local storage. Changes will not sync until the database is back."), nil
}

// GetProject loads a project by id. Missing projects return
// database.ErrNotFound regardless of tier.
func (d *DocStore) GetProject(ctx context.Context, id string) (Result[*models.Project], error) {
	if !strings.HasPrefix(id, LocalIDPrefix) && d.Available(ctx) {
		var p models.Project
		err := d.mongo.Collection(database.CollectionProjects).
			FindOne(ctx, bson.M{"_id": id}).Decode(&p)
		if err == nil {
			recordOperation(docService, "get_project", TierRemote)
			return remoteResult(&p), nil
		}
		if err == mongo.ErrNoDocuments {
			return Result[*models.Project]{}, database.ErrNotFound
		}
		log.Printf("⚠️ Remote project read failed, degrading to local store: %v", err)
	}

	data, err := d.local.GetDocument(database.CollectionProjects, id)
	if err != nil {
		return Result[*models.Project]{}, err
	}
	var p models.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Result[*models.Project]{}, fmt.Errorf("corrupt local project %s: %w", id, err)
	}
	recordOperation(docService, "get_project", TierFallback)
	return fallbackResult(&p, ""), nil
}

// ListProjects returns all projects from the serving tier, newest first.
func (d *DocStore) ListProjects(ctx context.Context) (Result[[]*models.Project], error) {
	if d.Available(ctx) {
		opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
		cursor, err := d.mongo.Collection(database.CollectionProjects).Find(ctx, bson.M{}, opts)
		if err == nil {
			var projects []*models.Project
			if err = cursor.All(ctx, &projects); err == nil {
				recordOperation(docService, "list_projects", TierRemote)
				return remoteResult(projects), nil
			}
		}
		log.Printf("⚠️ Remote project list failed, degrading to local store: %v", err)
	}

	docs, err := d.local.ListDocuments(database.CollectionProjects)
	if err != nil {
		return Result[[]*models.Project]{}, err
	}
	projects := make([]*models.Project, 0, len(docs))
	for _, data := range docs {
		var p models.Project
		if err := json.Unmarshal(data, &p); err != nil {
			log.Printf("⚠️ Skipping corrupt local project record: %v", err)
			continue
		}
		projects = append(projects, &p)
	}
	recordOperation(docService, "list_projects", TierFallback)
	return fallbackResult(projects, ""), nil
}

// DeleteProject removes a project from the serving tier. The local mirror is
// always cleared so a later fallback read cannot resurrect it.
func (d *DocStore) DeleteProject(ctx context.Context, id string) (Result[struct{}], error) {
	remoteOK := false
	if !strings.HasPrefix(id, LocalIDPrefix) && d.Available(ctx) {
		_, err := d.mongo.Collection(database.CollectionProjects).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Printf("⚠️ Remote project delete failed: %v", err)
		} else {
			remoteOK = true
		}
	}

	if err := d.local.DeleteDocument(database.CollectionProjects, id); err != nil && !remoteOK {
		return Result[struct{}]{}, fmt.Errorf("local project delete failed: %w", err)
	}
	if remoteOK {
		recordOperation(docService, "delete_project", TierRemote)
		return remoteResult(struct{}{}), nil
	}
	recordOperation(docService, "delete_project", TierFallback)
	return fallbackResult(struct{}{}, ""), nil
}

// SavePin persists a pinned item, minting its id and timestamp.
func (d *DocStore) SavePin(ctx context.Context, pin *models.PinnedItem) (Result[*models.PinnedItem], error) {
	if pin.PinnedAt.IsZero() {
		pin.PinnedAt = time.Now().UTC()
	}

	if d.Available(ctx) {
		if pin.ID == "" {
			pin.ID = uuid.NewString()
		}
		err := d.replaceOne(ctx, database.CollectionPins, pin.ID, pin)
		if err == nil {
			recordOperation(docService, "save_pin", TierRemote)
			return remoteResult(pin), nil
		}
		log.Printf("⚠️ Remote pin save failed, degrading to local store: %v", err)
	}

	if pin.ID == "" {
		pin.ID = LocalIDPrefix + uuid.NewString()
	}
	if err := d.putLocal(database.CollectionPins, pin.ID, pin); err != nil {
		return Result[*models.PinnedItem]{}, fmt.Errorf("local pin save failed: %w", err)
	}
	recordOperation(docService, "save_pin", TierFallback)
	return fallbackResult(pin, "Pinned locally. It will not sync until the database is back."), nil
}

// ListPins returns a user's pins, optionally filtered by item type, newest
// pin first.
func (d *DocStore) ListPins(ctx context.Context, userID string, itemType models.PinItemType) (Result[[]*models.PinnedItem], error) {
	if d.Available(ctx) {
		filter := bson.M{"userId": userID}
		if itemType != "" {
			filter["itemType"] = itemType
		}
		opts := options.Find().SetSort(bson.D{{Key: "pinnedAt", Value: -1}})
		cursor, err := d.mongo.Collection(database.CollectionPins).Find(ctx, filter, opts)
		if err == nil {
			var pins []*models.PinnedItem
			if err = cursor.All(ctx, &pins); err == nil {
				recordOperation(docService, "list_pins", TierRemote)
				return remoteResult(pins), nil
			}
		}
		log.Printf("⚠️ Remote pin list failed, degrading to local store: %v", err)
	}

	docs, err := d.local.ListDocuments(database.CollectionPins)
	if err != nil {
		return Result[[]*models.PinnedItem]{}, err
	}
	pins := make([]*models.PinnedItem, 0, len(docs))
	for _, data := range docs {
		var pin models.PinnedItem
		if err := json.Unmarshal(data, &pin); err != nil {
			log.Printf("⚠️ Skipping corrupt local pin record: %v", err)
			continue
		}
		if pin.UserID != userID {
			continue
		}
		if itemType != "" && pin.ItemType != itemType {
			continue
		}
		pins = append(pins, &pin)
	}
	recordOperation(docService, "list_pins", TierFallback)
	return fallbackResult(pins, ""), nil
}

// DeletePin removes a pinned item from the serving tier and the local
// mirror.
func (d *DocStore) DeletePin(ctx context.Context, id string) (Result[struct{}], error) {
	remoteOK := false
	if !strings.HasPrefix(id, LocalIDPrefix) && d.Available(ctx) {
		_, err := d.mongo.Collection(database.CollectionPins).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Printf("⚠️ Remote pin delete failed: %v", err)
		} else {
			remoteOK = true
		}
	}

	if err := d.local.DeleteDocument(database.CollectionPins, id); err != nil && !remoteOK {
		return Result[struct{}]{}, fmt.Errorf("local pin delete failed: %w", err)
	}
	if remoteOK {
		recordOperation(docService, "delete_pin", TierRemote)
		return remoteResult(struct{}{}), nil
	}
	recordOperation(docService, "delete_pin", TierFallback)
	return fallbackResult(struct{}{}, ""), nil
}

// SaveProfile persists a creator profile keyed by user id.
func (d *DocStore) SaveProfile(ctx context.Context, userID string, profile *models.CreatorProfile) (Result[*models.CreatorProfile], error) {
	if d.Available(ctx) {
		err := d.replaceOne(ctx, database.CollectionProfiles, userID, profile)
		if err == nil {
			recordOperation(docService, "save_profile", TierRemote)
			return remoteResult(profile), nil
		}
		log.Printf("⚠️ Remote profile save failed, degrading to local store: %v", err)
	}

	if err := d.putLocal(database.CollectionProfiles, userID, profile); err != nil {
		return Result[*models.CreatorProfile]{}, fmt.Errorf("local profile save failed: %w", err)
	}
	recordOperation(docService, "save_profile", TierFallback)
	return fallbackResult(profile, ""), nil
}

// GetProfile loads a creator profile, or database.ErrNotFound.
func (d *DocStore) GetProfile(ctx context.Context, userID string) (Result[*models.CreatorProfile], error) {
	if d.Available(ctx) {
		var profile models.CreatorProfile
		err := d.mongo.Collection(database.CollectionProfiles).
			FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
		if err == nil {
			recordOperation(docService, "get_profile", TierRemote)
			return remoteResult(&profile), nil
		}
		if err == mongo.ErrNoDocuments {
			return Result[*models.CreatorProfile]{}, database.ErrNotFound
		}
		log.Printf("⚠️ Remote profile read failed, degrading to local store: %v", err)
	}

	data, err := d.local.GetDocument(database.CollectionProfiles, userID)
	if err != nil {
		return Result[*models.CreatorProfile]{}, err
	}
	var profile models.CreatorProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Result[*models.CreatorProfile]{}, fmt.Errorf("corrupt local profile %s: %w", userID, err)
	}
	recordOperation(docService, "get_profile", TierFallback)
	return fallbackResult(&profile, ""), nil
}

func (d *DocStore) replaceOne(ctx context.Context, collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := d.mongo.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (d *DocStore) putLocal(collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return d.local.PutDocument(collection, id, data)
}

// mirrorProject keeps a local copy of remote saves so a later outage still
// has recent data to serve. Mirror failures are logged, never surfaced.
func (d *DocStore) mirrorProject(p *models.Project) {
	if err := d.putLocal(database.CollectionProjects, p.ID, p); err != nil {
		log.Printf("⚠️ Failed to mirror project %s locally: %v", p.ID, err)
	}
}
