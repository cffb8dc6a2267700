// Package mockgen is the deterministic template tier of the AI gateway. It is
// the single source of fallback content for every caller, so the gateway's
// local fallback and any server-side proxy can never drift apart.
package mockgen

import (
	"encoding/json"
	"strings"

	"contentos/internal/models"
)

// Kind is the coarse classification of a prompt.
type Kind string

const (
	KindImage       Kind = "image"
	KindStoryboard  Kind = "storyboard"
	KindShorts      Kind = "shorts"
	KindScript      Kind = "script"
	KindThumbnail   Kind = "thumbnail"
	KindDescription Kind = "description"
	KindTopic       Kind = "topic"
	KindDefault     Kind = "default"
)

// PlaceholderImageDataURI is a small self-contained SVG returned for image
// requests in template mode.
const PlaceholderImageDataURI = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iNDAwIiBoZWlnaHQ9IjMwMCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iNDAwIiBoZWlnaHQ9IjMwMCIgZmlsbD0iI2YxZjFmMSIvPjx0ZXh0IHg9IjUwJSIgeT0iNTAlIiBmb250LWZhbWlseT0ic2Fucy1zZXJpZiIgZm9udC1zaXplPSIxOCIgZmlsbD0iIzY2NiIgdGV4dC1hbmNob3I9Im1pZGRsZSIgZHk9Ii4zZW0iPkltYWdlIFByZXZpZXc8L3RleHQ+PHRleHQgeD0iNTAlIiB5PSI2NSUiIGZvbnQtZmFtaWx5PSJzYW5zLXNlcmlmIiBmb250LXNpemU9IjEyIiBmaWxsPSIjOTk5IiB0ZXh0LWFuY2hvcj0ibWlkZGxlIj5BZGQgQVBJIGtleSBpbiBTZXR0aW5ncyB0byBnZW5lcmF0ZTwvdGV4dD48L3N2Zz4="

// TemplateMessage accompanies every template-mode response.
const TemplateMessage = "Template mode active: Using structured templates. Add API key in Settings for AI-generated content."

// Classify buckets a request by its type and prompt keywords. Image requests
// always classify as image regardless of prompt wording.
func Classify(req models.GenerateRequest) Kind {
	if req.Type == models.GenerateImage {
		return KindImage
	}
	prompt := strings.ToLower(req.Prompt)
	switch {
	case strings.Contains(prompt, "storyboard") || strings.Contains(prompt, "scene"):
		return KindStoryboard
	case strings.Contains(prompt, "shorts"):
		return KindShorts
	case strings.Contains(prompt, "script"):
		return KindScript
	case strings.Contains(prompt, "thumbnail") || strings.Contains(prompt, "image prompt"):
		return KindThumbnail
	case strings.Contains(prompt, "description"):
		return KindDescription
	case strings.Contains(prompt, "topic") || strings.Contains(prompt, "title"):
		return KindTopic
	default:
		return KindDefault
	}
}

// Generate produces the deterministic template response for a request. It
// never fails and always marks FallbackUsed.
func Generate(req models.GenerateRequest) models.GenerateResponse {
	var data string
	switch Classify(req) {
	case KindImage:
		return models.GenerateResponse{
			Success:      true,
			Data:         PlaceholderImageDataURI,
			FallbackUsed: true,
			Message:      "Mock mode: Placeholder image returned. Add API key in Settings to generate real images.",
		}
	case KindStoryboard:
		data = marshal(MockScenes())
	case KindShorts:
		data = marshal(MockShorts())
	case KindScript:
		if strings.Contains(strings.ToLower(req.Prompt), string(models.FormatFaceless)) {
			data = mockScriptFaceless
		} else {
			data = mockScriptFacecam
		}
	case KindThumbnail:
		data = mockThumbnailPrompt
	case KindDescription:
		data = mockDescription
	case KindTopic:
		data = marshal(MockTopics())
	default:
		data = "Generated content would appear here. Configure an AI provider in settings for custom generations."
	}

	return models.GenerateResponse{
		Success:      true,
		Data:         data,
		FallbackUsed: true,
		Message:      TemplateMessage,
	}
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// All template values are plain structs; this cannot fire in practice.
		return "[]"
	}
	return string(b)
}

// MockTopics returns the fixed topic suggestion set.
func MockTopics() []models.TopicSuggestion {
	return []models.TopicSuggestion{
		{ID: "topic-1", Title: "The Hidden Truth About Productivity No One Talks About", Rationale: "Addresses a curiosity gap while promising insider knowledge", PredictedScore: 85},
		{ID: "topic-2", Title: "Why Most People Fail at Building Habits (And How to Fix It)", Rationale: "Identifies a common pain point with solution promise", PredictedScore: 82},
		{ID: "topic-3", Title: "I Tried This Morning Routine for 30 Days - Here's What Happened", Rationale: "Personal story format with specific timeframe", PredictedScore: 78},
		{ID: "topic-4", Title: "The Science Behind Deep Work: What Research Actually Shows", Rationale: "Authority-building with scientific backing", PredictedScore: 75},
		{ID: "topic-5", Title: "5 Mistakes That Are Killing Your Focus (Backed by Science)", Rationale: "List format with negative framing (loss aversion)", PredictedScore: 80},
		{ID: "topic-6", Title: "How I 10x'd My Output Without Working More Hours", Rationale: "Results-focused with counterintuitive promise", PredictedScore: 88},
		{ID: "topic-7", Title: "The Productivity System That Changed Everything for Me", Rationale: "Personal transformation story", PredictedScore: 76},
		{ID: "topic-8", Title: "Why You're Always Busy But Never Productive", Rationale: "Relatable problem identification", PredictedScore: 79},
		{ID: "topic-9", Title: "The Counterintuitive Approach to Getting More Done", Rationale: "Curiosity gap with contradiction", PredictedScore: 81},
		{ID: "topic-10", Title: "What Successful Creators Do Differently Every Morning", Rationale: "Social proof with daily routine appeal", PredictedScore: 83},
	}
}

// MockScenes returns the fixed storyboard template.
func MockScenes() []models.StoryboardScene {
	return []models.StoryboardScene{
		{
			SceneNumber:       1,
			TimestampStart:    "0:00",
			TimestampEnd:      "0:15",
			Duration:          15,
			Type:              models.SceneARoll,
			ScriptSegment:     "Hey everyone, welcome back! Today I'm going to share something that completely changed how I think about productivity.",
			VisualDescription: "Host speaking directly to camera with energetic expression",
			ImagePrompt:       "YouTube creator in home studio, bright lighting, confident expression, professional microphone visible, warm background",
			AudioNote:         "Upbeat intro music fading out",
		},
		{
			SceneNumber:       2,
			TimestampStart:    "0:15",
			TimestampEnd:      "0:45",
			Duration:          30,
			Type:              models.SceneBRoll,
			ScriptSegment:     "Most people approach productivity completely wrong. They try to multitask...",
			VisualDescription: "Montage of distracted workers, multiple browser tabs, phone notifications",
			ImagePrompt:       "Split screen showing distracted person with phone notifications, messy desk, multiple screens",
			AudioNote:         "Subtle tension music",
		},
		{
			SceneNumber:           3,
			TimestampStart:        "0:45",
			TimestampEnd:          "2:00",
			Duration:              75,
			Type:                  models.SceneScreenCap,
			ScriptSegment:         "The key insight is single-tasking beats multitasking every time.",
			VisualDescription:     "Calendar app showing time blocks, timer app in focus mode",
			ImagePrompt:           "Clean calendar interface with color-coded time blocks, focus mode activated, minimalist design",
			RecordingInstructions: "Open Google Calendar, zoom 150%, show time blocking technique",
		},
	}
}

// MockShorts returns the fixed shorts extraction template.
func MockShorts() []models.ShortsExtract {
	return []models.ShortsExtract{
		{
			ID:                 "short-1",
			SourceScriptID:     "script-1",
			Title:              "The 5-Second Rule That Changed Everything",
			Duration:           25,
			TimestampStart:     "0:15",
			TimestampEnd:       "0:40",
			HookText:           "If you're not doing this one thing, 90% of your time is being wasted...",
			HookReason:         "Creates curiosity gap with a shocking statistic and personal address",
			FullContent:        "If you're not doing this one thing, 90% of your time is being wasted... I tried it myself and look at the results - productivity tripled!",
			EngagementScore:    92,
			ViralPotential:     models.ViralViral,
			ContentType:        models.ShortsHook,
			TargetAudience:     "Productivity seekers, students, professionals",
			SuggestedThumbnail: "Person with shocked expression, clock in background, bold text \"90% WASTE\"",
			SuggestedTitles:    []string{"Don't Make This Mistake!", "90% of People Get This Wrong", "Learn This in 1 Minute"},
			Hashtags:           []string{"#productivity", "#timemanagement", "#success", "#motivation", "#shorts"},
			BestPostingTime:    "7-9 PM",
			CrossPlatformAdaptation: models.CrossPlatformAdaptation{
				Instagram: "Add trending audio, use 4:5 ratio, include poll sticker",
				TikTok:    "Use popular sound, add captions, faster pace with jump cuts",
			},
		},
		{
			ID:                 "short-2",
			SourceScriptID:     "script-1",
			Title:              "The Hidden Feature Nobody Knows",
			Duration:           20,
			TimestampStart:     "1:30",
			TimestampEnd:       "1:50",
			HookText:           "I watched 100+ videos and found this secret feature...",
			HookReason:         "Exclusivity and insider knowledge creates FOMO",
			FullContent:        "I watched 100+ videos and found this secret feature... Go to settings, enable this, and boom - look at the results!",
			EngagementScore:    88,
			ViralPotential:     models.ViralHigh,
			ContentType:        models.ShortsReveal,
			TargetAudience:     "Tech enthusiasts, content creators",
			SuggestedThumbnail: "Phone screen with secret feature highlighted, \"SECRET\" text",
			SuggestedTitles:    []string{"The Secret Feature!", "This Is Disabled for 99% of People", "Unlock Hidden Settings"},
			Hashtags:           []string{"#youtube", "#secret", "#tips", "#tech", "#shorts"},
			BestPostingTime:    "12-2 PM",
			CrossPlatformAdaptation: models.CrossPlatformAdaptation{
				Instagram: "Screen recording style, use in-app music",
				TikTok:    "Green screen effect, pointing trend",
			},
		},
	}
}

// MockTitles returns the fixed title suggestion set.
func MockTitles() []string {
	return []string{
		"I Tried This for 30 Days. The Results Shocked Me.",
		"The Productivity Method That Actually Works (Science-Backed)",
		"Why You're Still Procrastinating (And the Real Fix)",
		"This Changed How I Work Forever",
		"Stop Doing This If You Want to Be Productive",
	}
}

const mockScriptFacecam = `[HOOK - 0:00-0:15]
Hey everyone, welcome back! Today I'm going to share something that completely changed how I think about productivity. If you've been struggling to stay focused, this video is for you.

[PROBLEM - 0:15-0:45]
Here's the thing: most people approach productivity completely wrong. They try to multitask, and then wonder why they're not seeing results. I was there too, trust me.

[SOLUTION - 0:45-2:00]
But then I discovered time blocking. The key insight is single-tasking beats multitasking every time. Let me break this down into three simple steps:

Step 1: Identify your most important task
Step 2: Block 90 minutes of uninterrupted time
Step 3: Eliminate all distractions

[PROOF - 2:00-3:00]
I tested this approach for 30 days, and the results were incredible. My output doubled while working fewer hours. And I'm not the only one - thousands of creators have reported similar results.

[CTA - 3:00-3:30]
If you want to try this yourself, I've put together a free guide in the description. And if you found this helpful, hit that like button and subscribe for more content like this. See you in the next one!`

const mockScriptFaceless = `[0:00-0:10] TITLE CARD: "The Time Blocking Method"
TEXT OVERLAY: "What if everything you knew about productivity was wrong?"

[0:10-0:30] B-ROLL: Fast-paced montage of clocks, calendars, focused work
NARRATOR (V.O.): Every day, millions of people struggle with staying focused. But what if I told you there's a better way?

[0:30-1:00] SCREEN CAPTURE: Demonstrating time blocking
NARRATOR (V.O.): It all starts with understanding deep work. Most people get this wrong because they think willpower is enough.

[1:00-2:00] GRAPHICS: Animated infographic showing productivity curves over time
NARRATOR (V.O.): Here's the data that changed everything. Studies show focused work produces 40% better results. This means your environment matters more than your motivation.

[2:00-2:45] B-ROLL: Person working at desk with phone away
NARRATOR (V.O.): So how do you actually implement this? Follow these three steps:

TEXT OVERLAY:
1. Identify your most important task
2. Block 90 minutes of uninterrupted time
3. Eliminate all distractions

[2:45-3:15] SCREEN CAPTURE: Step-by-step walkthrough
NARRATOR (V.O.): I documented my own journey trying this for 30 days. The result? My output doubled.

[3:15-3:30] END CARD with CTA
TEXT: "Subscribe for more" / "Link in description"`

const mockThumbnailPrompt = `A clean, high-contrast thumbnail showing a split-screen comparison: left side labeled "BEFORE" with a stressed, overwhelmed person surrounded by chaos; right side labeled "AFTER" with the same person calm and focused. Bold text overlay: "30 DAY TRANSFORMATION". Use bright, energetic colors with a subtle gradient background. Include a small clock icon and upward trending arrow graphic.`

const mockDescription = `In this video, I break down the science-backed productivity system that helped me double my output while working fewer hours.

Key Takeaways:
- Why multitasking is killing your productivity
- The 90-minute focus block method
- How to design your environment for success

Timestamps:
0:00 - The problem with modern work
1:30 - What the research actually shows
3:45 - The 3-step implementation
6:00 - My 30-day results
8:30 - How to get started today

#productivity #focus #deepwork`
