package models

// ViralPotential grades a short-form clip's expected reach.
type ViralPotential string

const (
	ViralLow    ViralPotential = "low"
	ViralMedium ViralPotential = "medium"
	ViralHigh   ViralPotential = "high"
	ViralViral  ViralPotential = "viral"
)

// ShortsContentType classifies the hook mechanic of a short.
type ShortsContentType string

const (
	ShortsHook        ShortsContentType = "hook"
	ShortsTwist       ShortsContentType = "twist"
	ShortsReveal      ShortsContentType = "reveal"
	ShortsEmotion     ShortsContentType = "emotion"
	ShortsValueBomb   ShortsContentType = "value_bomb"
	ShortsControversy ShortsContentType = "controversy"
)

const (
	// ShortsMinDuration and ShortsMaxDuration bound a clip's length in seconds.
	ShortsMinDuration = 10
	ShortsMaxDuration = 30
)

// CrossPlatformAdaptation holds per-platform repackaging notes.
type CrossPlatformAdaptation struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	TikTok    string `bson:"tiktok,omitempty" json:"tiktok,omitempty"`
}

// ShortsExtract is a short-form clip derived from a finalized script.
type ShortsExtract struct {
	ID                      string                  `bson:"id" json:"id"`
	SourceScriptID          string                  `bson:"sourceScriptId" json:"sourceScriptId"`
	Title                   string                  `bson:"title" json:"title"`
	Duration                int                     `bson:"duration" json:"duration"`
	TimestampStart          string                  `bson:"timestampStart" json:"timestampStart"`
	TimestampEnd            string                  `bson:"timestampEnd" json:"timestampEnd"`
	HookText                string                  `bson:"hookText" json:"hookText"`
	HookReason              string                  `bson:"hookReason,omitempty" json:"hookReason,omitempty"`
	FullContent             string                  `bson:"fullContent" json:"fullContent"`
	EngagementScore         int                     `bson:"engagementScore" json:"engagementScore"`
	ViralPotential          ViralPotential          `bson:"viralPotential" json:"viralPotential"`
	ContentType             ShortsContentType       `bson:"contentType" json:"contentType"`
	TargetAudience          string                  `bson:"targetAudience,omitempty" json:"targetAudience,omitempty"`
	SuggestedThumbnail      string                  `bson:"suggestedThumbnail,omitempty" json:"suggestedThumbnail,omitempty"`
	SuggestedTitles         []string                `bson:"suggestedTitles,omitempty" json:"suggestedTitles,omitempty"`
	Hashtags                []string                `bson:"hashtags,omitempty" json:"hashtags,omitempty"`
	BestPostingTime         string                  `bson:"bestPostingTime,omitempty" json:"bestPostingTime,omitempty"`
	CrossPlatformAdaptation CrossPlatformAdaptation `bson:"crossPlatformAdaptation,omitempty" json:"crossPlatformAdaptation,omitempty"`
}

// Coerce clamps and defaults provider-supplied fields in place. Providers
// routinely emit out-of-range durations and invented enum values; those are
// normalized to safe defaults rather than rejected.
func (s *ShortsExtract) Coerce() {
	if s.Duration < ShortsMinDuration {
		s.Duration = ShortsMinDuration
	}
	if s.Duration > ShortsMaxDuration {
		s.Duration = ShortsMaxDuration
	}
	switch s.ViralPotential {
	case ViralLow, ViralMedium, ViralHigh, ViralViral:
	default:
		s.ViralPotential = ViralMedium
	}
	switch s.ContentType {
	case ShortsHook, ShortsTwist, ShortsReveal, ShortsEmotion, ShortsValueBomb, ShortsControversy:
	default:
		s.ContentType = ShortsHook
	}
}
