package models

import "time"

// PinItemType tags the shape of a pinned item's content payload.
type PinItemType string

const (
	PinTopic            PinItemType = "topic"
	PinScript           PinItemType = "script"
	PinStoryboard       PinItemType = "storyboard"
	PinTitle            PinItemType = "title"
	PinDescription      PinItemType = "description"
	PinThumbnailConcept PinItemType = "thumbnail_concept"
	PinShortsExtract    PinItemType = "shorts_extract"
)

// PinnedItem is a durable, stage-independent bookmark of a generated
// artifact. Pins outlive their source project: SourceProjectID is a weak
// reference that may dangle after the project is deleted.
type PinnedItem struct {
	ID              string      `bson:"_id,omitempty" json:"id"`
	UserID          string      `bson:"userId" json:"userId"`
	ItemType        PinItemType `bson:"itemType" json:"itemType"`
	Content         any         `bson:"content" json:"content"`
	SourceProjectID string      `bson:"sourceProjectId" json:"sourceProjectId"`
	PinnedAt        time.Time   `bson:"pinnedAt" json:"pinnedAt"`
}
