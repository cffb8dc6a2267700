package models

import "time"

// StorageType distinguishes where an uploaded asset actually lives.
type StorageType string

const (
	StorageRemote StorageType = "s3"
	StorageInline StorageType = "inline"
)

// AssetMetadata carries optional dimensions and content info for an upload.
type AssetMetadata struct {
	Width    int    `bson:"width,omitempty" json:"width,omitempty"`
	Height   int    `bson:"height,omitempty" json:"height,omitempty"`
	Size     int    `bson:"size,omitempty" json:"size,omitempty"`
	MimeType string `bson:"mimeType,omitempty" json:"mimeType,omitempty"`
}

// Asset is an uploaded image reference. Inline assets keep their bytes as a
// data URI in local storage; remote assets point at the object store.
type Asset struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	URL         string        `bson:"url" json:"url"`
	StorageType StorageType   `bson:"storageType" json:"storageType"`
	Metadata    AssetMetadata `bson:"metadata" json:"metadata"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
