package models

import (
	"strconv"
	"strings"
)

// SceneType classifies what footage a storyboard scene calls for.
type SceneType string

const (
	SceneARoll     SceneType = "A-roll"
	SceneBRoll     SceneType = "B-roll"
	SceneScreenCap SceneType = "ScreenCap"
	SceneGraphic   SceneType = "Graphic"
)

// StoryboardScene is one ordered scene of a storyboard. GeneratedImageURL is
// ephemeral preview state and is stripped before any persisted snapshot so
// large image payloads never land in durable storage.
type StoryboardScene struct {
	SceneNumber           int       `bson:"sceneNumber" json:"sceneNumber"`
	TimestampStart        string    `bson:"timestampStart" json:"timestampStart"`
	TimestampEnd          string    `bson:"timestampEnd" json:"timestampEnd"`
	Duration              int       `bson:"duration" json:"duration"`
	Type                  SceneType `bson:"type" json:"type"`
	ScriptSegment         string    `bson:"scriptSegment" json:"scriptSegment"`
	VisualDescription     string    `bson:"visualDescription" json:"visualDescription"`
	ImagePrompt           string    `bson:"imagePrompt" json:"imagePrompt"`
	RecordingInstructions string    `bson:"recordingInstructions,omitempty" json:"recordingInstructions,omitempty"`
	AudioNote             string    `bson:"audioNote,omitempty" json:"audioNote,omitempty"`
	GeneratedImageURL     string    `bson:"generatedImageUrl,omitempty" json:"generatedImageUrl,omitempty"`
}

// ParseTimestamp converts a "M:SS" (or "H:MM:SS") timestamp into seconds.
func ParseTimestamp(ts string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// Normalize repairs a generated scene in place: duration is recomputed from
// the time window when both timestamps parse, and an empty image prompt is
// synthesized from the visual description or the topic title so downstream
// image generation always has something to work with.
func (s *StoryboardScene) Normalize(topicTitle string) {
	start, okStart := ParseTimestamp(s.TimestampStart)
	end, okEnd := ParseTimestamp(s.TimestampEnd)
	if okStart && okEnd && end >= start {
		s.Duration = end - start
	}
	if s.Type == "" {
		s.Type = SceneARoll
	}
	if strings.TrimSpace(s.ImagePrompt) == "" {
		switch {
		case strings.TrimSpace(s.VisualDescription) != "":
			s.ImagePrompt = s.VisualDescription
		case strings.TrimSpace(topicTitle) != "":
			s.ImagePrompt = "Illustrative frame for a video about " + topicTitle
		default:
			s.ImagePrompt = "Illustrative frame for scene " + strconv.Itoa(s.SceneNumber)
		}
	}
}
