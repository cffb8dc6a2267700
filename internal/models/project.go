package models

import (
	"time"
)

// WorkflowStage identifies one step of the content pipeline. The order of
// stages is owned by the workflow package; imagegen is a stage-independent
// utility mode that never gates on project state.
type WorkflowStage string

const (
	StageIngestion  WorkflowStage = "ingestion"
	StageTopics     WorkflowStage = "topics"
	StageScript     WorkflowStage = "script"
	StageStoryboard WorkflowStage = "storyboard"
	StageMetadata   WorkflowStage = "metadata"
	StageShorts     WorkflowStage = "shorts"
	StageComplete   WorkflowStage = "complete"
	StageImageGen   WorkflowStage = "imagegen"
)

// DataSourceType tags how the raw analytics data entered the system.
type DataSourceType string

const (
	DataSourceCSV    DataSourceType = "csv"
	DataSourceImages DataSourceType = "images"
	DataSourceManual DataSourceType = "manual"
)

// ScriptFormat distinguishes on-camera from voice-over scripts.
type ScriptFormat string

const (
	FormatFacecam  ScriptFormat = "facecam"
	FormatFaceless ScriptFormat = "faceless"
)

// DashboardData is one row of channel analytics (a CSV/XLSX export row or a
// manually entered record).
type DashboardData struct {
	VideoTitle      string  `bson:"videoTitle,omitempty" json:"videoTitle,omitempty"`
	Views           int     `bson:"views,omitempty" json:"views,omitempty"`
	CTR             float64 `bson:"ctr,omitempty" json:"ctr,omitempty"`
	Duration        string  `bson:"duration,omitempty" json:"duration,omitempty"`
	Impressions     int     `bson:"impressions,omitempty" json:"impressions,omitempty"`
	WatchTime       float64 `bson:"watchTime,omitempty" json:"watchTime,omitempty"`
	AvgViewDuration string  `bson:"avgViewDuration,omitempty" json:"avgViewDuration,omitempty"`
}

// DataSource is the ingested analytics payload for a project.
type DataSource struct {
	Type        DataSourceType  `bson:"type" json:"type"`
	RawData     []DashboardData `bson:"rawData" json:"rawData"`
	ProcessedAt time.Time       `bson:"processedAt" json:"processedAt"`
}

// TopicSuggestion is one generated video topic candidate.
type TopicSuggestion struct {
	ID             string `bson:"id" json:"id"`
	Title          string `bson:"title" json:"title"`
	Rationale      string `bson:"rationale" json:"rationale"`
	PredictedScore int    `bson:"predictedScore" json:"predictedScore"`
	TargetAudience string `bson:"targetAudience,omitempty" json:"targetAudience,omitempty"`
	ContentAngle   string `bson:"contentAngle,omitempty" json:"contentAngle,omitempty"`
}

// SelectedTopic is the committed topic choice; finalization stamps the time.
type SelectedTopic struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	FinalizedAt time.Time `bson:"finalizedAt" json:"finalizedAt"`
}

// ScriptVariant is one generated script draft.
type ScriptVariant struct {
	ID                string       `bson:"id" json:"id"`
	Content           string       `bson:"content" json:"content"`
	Format            ScriptFormat `bson:"format" json:"format"`
	WordCount         int          `bson:"wordCount" json:"wordCount"`
	EstimatedDuration string       `bson:"estimatedDuration" json:"estimatedDuration"`
}

// SelectedScript is the committed script choice.
type SelectedScript struct {
	ID      string       `bson:"id" json:"id"`
	Content string       `bson:"content" json:"content"`
	Format  ScriptFormat `bson:"format" json:"format"`
}

// Storyboard is the committed scene breakdown for the selected script.
type Storyboard struct {
	Scenes []StoryboardScene `bson:"scenes" json:"scenes"`
	Format ScriptFormat      `bson:"format" json:"format"`
}

// VideoMetadata is the committed publishing metadata.
type VideoMetadata struct {
	Title            string   `bson:"title" json:"title"`
	Description      string   `bson:"description" json:"description"`
	Tags             []string `bson:"tags" json:"tags"`
	ThumbnailPrompt  string   `bson:"thumbnailPrompt" json:"thumbnailPrompt"`
	ThumbnailConcept string   `bson:"thumbnailConcept,omitempty" json:"thumbnailConcept,omitempty"`
	ThumbnailLayout  string   `bson:"thumbnailLayout,omitempty" json:"thumbnailLayout,omitempty"`
}

// ThumbnailConcept is one generated thumbnail direction.
type ThumbnailConcept struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Layout      string `bson:"layout" json:"layout"`
	TextOverlay string `bson:"textOverlay" json:"textOverlay"`
	ColorScheme string `bson:"colorScheme" json:"colorScheme"`
}

// PostingSchedule captures when the creator prefers to publish.
type PostingSchedule struct {
	PreferredDays   []string `bson:"preferredDays" json:"preferredDays"`
	PreferredTimes  []string `bson:"preferredTimes" json:"preferredTimes"`
	ShortsFrequency string   `bson:"shortsFrequency" json:"shortsFrequency"`
}

// CreatorProfile is the brand-voice record. It rides on the project document
// but is saved independently of the stage pipeline.
type CreatorProfile struct {
	ID                 string          `bson:"id" json:"id"`
	Name               string          `bson:"name" json:"name"`
	Niche              string          `bson:"niche" json:"niche"`
	ToneOfVoice        []string        `bson:"toneOfVoice" json:"toneOfVoice"`
	ContentPillars     []string        `bson:"contentPillars" json:"contentPillars"`
	AudiencePersona    string          `bson:"audiencePersona" json:"audiencePersona"`
	BrandKeywords      []string        `bson:"brandKeywords" json:"brandKeywords"`
	PostingSchedule    PostingSchedule `bson:"postingSchedule" json:"postingSchedule"`
	ContentGoals       []string        `bson:"contentGoals" json:"contentGoals"`
	UniqueSellingPoint string          `bson:"uniqueSellingPoint" json:"uniqueSellingPoint"`
}

// Project is the unit of work moving through the pipeline. The stage field
// mirrors the workflow machine's position and is kept in sync with it on
// every transition and finalization.
type Project struct {
	ID                string             `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	UserID            string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Stage             WorkflowStage      `bson:"stage" json:"stage"`
	DataSource        *DataSource        `bson:"dataSource" json:"dataSource"`
	SelectedTopic     *SelectedTopic     `bson:"selectedTopic" json:"selectedTopic"`
	TopicSuggestions  []TopicSuggestion  `bson:"topicSuggestions,omitempty" json:"topicSuggestions,omitempty"`
	ScriptVariants    []ScriptVariant    `bson:"scriptVariants,omitempty" json:"scriptVariants,omitempty"`
	TitleSuggestions  []string           `bson:"titleSuggestions,omitempty" json:"titleSuggestions,omitempty"`
	ThumbnailConcepts []ThumbnailConcept `bson:"thumbnailConcepts,omitempty" json:"thumbnailConcepts,omitempty"`
	SelectedScript    *SelectedScript    `bson:"selectedScript" json:"selectedScript"`
	SelectedStoryboard *Storyboard       `bson:"selectedStoryboard" json:"selectedStoryboard"`
	SelectedMetadata  *VideoMetadata     `bson:"selectedMetadata" json:"selectedMetadata"`
	ShortsExtracts    []ShortsExtract    `bson:"shortsExtracts,omitempty" json:"shortsExtracts,omitempty"`
	CreatorProfile    *CreatorProfile    `bson:"creatorProfile,omitempty" json:"creatorProfile,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Clone returns a deep copy of the project. Slices of value types are copied;
// pointer fields are re-allocated so mutations on the copy never leak back.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	if p.DataSource != nil {
		ds := *p.DataSource
		ds.RawData = append([]DashboardData(nil), p.DataSource.RawData...)
		out.DataSource = &ds
	}
	if p.SelectedTopic != nil {
		st := *p.SelectedTopic
		out.SelectedTopic = &st
	}
	if p.SelectedScript != nil {
		ss := *p.SelectedScript
		out.SelectedScript = &ss
	}
	if p.SelectedStoryboard != nil {
		sb := *p.SelectedStoryboard
		sb.Scenes = append([]StoryboardScene(nil), p.SelectedStoryboard.Scenes...)
		out.SelectedStoryboard = &sb
	}
	if p.SelectedMetadata != nil {
		md := *p.SelectedMetadata
		md.Tags = append([]string(nil), p.SelectedMetadata.Tags...)
		out.SelectedMetadata = &md
	}
	if p.CreatorProfile != nil {
		cp := *p.CreatorProfile
		out.CreatorProfile = &cp
	}
	out.TopicSuggestions = append([]TopicSuggestion(nil), p.TopicSuggestions...)
	out.ScriptVariants = append([]ScriptVariant(nil), p.ScriptVariants...)
	out.TitleSuggestions = append([]string(nil), p.TitleSuggestions...)
	out.ThumbnailConcepts = append([]ThumbnailConcept(nil), p.ThumbnailConcepts...)
	out.ShortsExtracts = append([]ShortsExtract(nil), p.ShortsExtracts...)
	return &out
}

// ProjectPatch carries a shallow partial update. Nil fields are left alone;
// non-nil fields replace the current value wholesale.
type ProjectPatch struct {
	Name              *string             `json:"name,omitempty"`
	DataSource        *DataSource         `json:"dataSource,omitempty"`
	TopicSuggestions  *[]TopicSuggestion  `json:"topicSuggestions,omitempty"`
	ScriptVariants    *[]ScriptVariant    `json:"scriptVariants,omitempty"`
	TitleSuggestions  *[]string           `json:"titleSuggestions,omitempty"`
	ThumbnailConcepts *[]ThumbnailConcept `json:"thumbnailConcepts,omitempty"`
	ShortsExtracts    *[]ShortsExtract    `json:"shortsExtracts,omitempty"`
	CreatorProfile    *CreatorProfile     `json:"creatorProfile,omitempty"`
}
