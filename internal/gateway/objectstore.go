package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"contentos/internal/database"
	"contentos/internal/models"
)

const objectService = "objects"

// InlineIDPrefix marks assets stored inline in the local store rather than
// in the object store.
const InlineIDPrefix = "inline-"

// InlineSizeLimit caps fallback uploads. Inline payloads live inside the
// embedded database, so oversized uploads are refused rather than degraded.
const InlineSizeLimit = 2 << 20

// ErrPayloadTooLarge is returned when the object tier is down and the upload
// exceeds the inline fallback limit.
var ErrPayloadTooLarge = errors.New("upload exceeds inline storage limit while object storage is unavailable")

// ObjectStore fronts an S3-compatible object store with inline data URIs in
// the local store as the fallback tier.
type ObjectStore struct {
	client       *minio.Client
	bucket       string
	publicBase   string
	local        *database.LocalStore
	probeTimeout time.Duration
}

// ObjectStoreConfig carries the remote tier's connection settings. An empty
// Endpoint means no remote tier is configured.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewObjectStore builds the gateway. A missing or misconfigured remote tier
// is not an error; the gateway simply serves everything inline.
func NewObjectStore(cfg ObjectStoreConfig, local *database.LocalStore, probeTimeout time.Duration) (*ObjectStore, error) {
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	store := &ObjectStore{
		bucket:       cfg.Bucket,
		local:        local,
		probeTimeout: probeTimeout,
	}

	if cfg.Endpoint == "" {
		return store, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	store.client = client

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	store.publicBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)

	return store, nil
}

// Available probes the remote tier within the probe budget.
func (o *ObjectStore) Available(ctx context.Context) bool {
	if o.client == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()
	exists, err := o.client.BucketExists(probeCtx, o.bucket)
	if err != nil || !exists {
		recordProbeFailure(objectService)
		return false
	}
	return true
}

// Upload stores an image payload and returns its asset record. When the
// remote tier is down, payloads within the inline limit are stored as data
// URIs; larger ones fail with ErrPayloadTooLarge.
func (o *ObjectStore) Upload(ctx context.Context, data []byte, contentType string, meta models.AssetMetadata) (Result[*models.Asset], error) {
	meta.Size = len(data)
	if meta.MimeType == "" {
		meta.MimeType = contentType
	}

	if o.Available(ctx) {
		id := uuid.NewString() + extensionFor(contentType)
		_, err := o.client.PutObject(ctx, o.bucket, id, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		if err == nil {
			asset := &models.Asset{
				ID:          id,
				URL:         o.publicBase + "/" + id,
				StorageType: models.StorageRemote,
				Metadata:    meta,
				CreatedAt:   time.Now().UTC(),
			}
			o.saveRecord(asset)
			recordOperation(objectService, "upload", TierRemote)
			return remoteResult(asset), nil
		}
		log.Printf("⚠️ Remote upload failed, degrading to inline storage: %v", err)
	}

	if len(data) > InlineSizeLimit {
		return Result[*models.Asset]{}, ErrPayloadTooLarge
	}

	id := InlineIDPrefix + uuid.NewString()
	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	if err := o.local.PutAsset(id, dataURI); err != nil {
		return Result[*models.Asset]{}, fmt.Errorf("inline asset store failed: %w", err)
	}

	asset := &models.Asset{
		ID:          id,
		URL:         dataURI,
		StorageType: models.StorageInline,
		Metadata:    meta,
		CreatedAt:   time.Now().UTC(),
	}
	o.saveRecord(asset)
	recordOperation(objectService, "upload", TierFallback)
	return fallbackResult(asset, "Object storage unavailable: image stored inline."), nil
}

// Resolve returns the asset record for an id, or database.ErrNotFound.
func (o *ObjectStore) Resolve(ctx context.Context, id string) (*models.Asset, error) {
	data, err := o.local.GetDocument(database.CollectionAssets, id)
	if err == nil {
		var asset models.Asset
		if uerr := json.Unmarshal(data, &asset); uerr == nil {
			return &asset, nil
		}
	}

	// Inline assets can be reconstructed from their payload even if the
	// record is gone.
	if strings.HasPrefix(id, InlineIDPrefix) {
		uri, err := o.local.GetAsset(id)
		if err != nil {
			return nil, err
		}
		return &models.Asset{ID: id, URL: uri, StorageType: models.StorageInline}, nil
	}

	if o.client != nil {
		return &models.Asset{ID: id, URL: o.publicBase + "/" + id, StorageType: models.StorageRemote}, nil
	}
	return nil, database.ErrNotFound
}

// Delete removes an asset. Inline assets never touch the network; remote
// deletes are attempted only when the tier is up.
func (o *ObjectStore) Delete(ctx context.Context, id string) (Result[struct{}], error) {
	defer func() {
		if err := o.local.DeleteDocument(database.CollectionAssets, id); err != nil {
			log.Printf("⚠️ Failed to drop asset record %s: %v", id, err)
		}
	}()

	if strings.HasPrefix(id, InlineIDPrefix) {
		if err := o.local.DeleteAsset(id); err != nil {
			return Result[struct{}]{}, fmt.Errorf("inline asset delete failed: %w", err)
		}
		recordOperation(objectService, "delete", TierFallback)
		return fallbackResult(struct{}{}, ""), nil
	}

	if !o.Available(ctx) {
		return Result[struct{}]{}, fmt.Errorf("object storage unavailable, cannot delete %s", id)
	}
	if err := o.client.RemoveObject(ctx, o.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return Result[struct{}]{}, fmt.Errorf("remote asset delete failed: %w", err)
	}
	recordOperation(objectService, "delete", TierRemote)
	return remoteResult(struct{}{}), nil
}

// saveRecord keeps asset bookkeeping in the local store. Failures are
// logged; the payload itself is already safe.
func (o *ObjectStore) saveRecord(asset *models.Asset) {
	data, err := json.Marshal(asset)
	if err != nil {
		return
	}
	if err := o.local.PutDocument(database.CollectionAssets, asset.ID, data); err != nil {
		log.Printf("⚠️ Failed to store asset record %s: %v", asset.ID, err)
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
