package aisdk

import "strings"

// ──────────────────────────────────────────────
// Style Feedback Detector — explicit phrasing preferences
// ──────────────────────────────────────────────

// DefaultStylePatterns maps communication styles to the short phrases
// users type when they want that register. Override via
// NewStyleFeedbackDetector.
func DefaultStylePatterns() map[CommunicationStyle][]string {
	return map[CommunicationStyle][]string{
		StyleFormal: {
			"be more formal", "more professional", "less slang", "be serious",
		},
		StyleCasual: {
			"less formal", "talk normally", "plain english", "keep it casual",
			"lighten up", "too stiff",
		},
		StyleTechnical: {
			"more technical", "get technical", "show the details", "more depth",
			"explain the internals",
		},
		StyleCreative: {
			"be more creative", "make it fun", "spice it up", "more imaginative",
		},
		StyleSupportive: {
			"be gentle", "be nice", "more encouraging", "be supportive",
			"go easy on me",
		},
	}
}

// styleDetectionOrder fixes iteration order so detection is deterministic
// when a message matches more than one style.
var styleDetectionOrder = []CommunicationStyle{
	StyleFormal, StyleCasual, StyleTechnical, StyleCreative, StyleSupportive,
}

// OnStyleChangeFn is called when a detected preference updates a profile.
type OnStyleChangeFn func(userID string, style CommunicationStyle)

// StyleFeedbackDetector detects explicit user feedback about how the
// entity should talk and maps it onto a CommunicationStyle. Only short
// messages are considered: long messages are conversation, not feedback.
type StyleFeedbackDetector struct {
	patterns map[CommunicationStyle][]string
	maxLen   int
	onChange OnStyleChangeFn
}

// NewStyleFeedbackDetector creates a detector. Nil patterns use
// DefaultStylePatterns; maxLen <= 0 defaults to 80 runes.
func NewStyleFeedbackDetector(patterns map[CommunicationStyle][]string, maxLen int, onChange OnStyleChangeFn) *StyleFeedbackDetector {
	if patterns == nil {
		patterns = DefaultStylePatterns()
	}
	if maxLen <= 0 {
		maxLen = 80
	}
	return &StyleFeedbackDetector{
		patterns: patterns,
		maxLen:   maxLen,
		onChange: onChange,
	}
}

// Detect reports the style a message asks for, if any.
func (d *StyleFeedbackDetector) Detect(message string) (CommunicationStyle, bool) {
	message = strings.TrimSpace(message)
	if message == "" || len([]rune(message)) > d.maxLen {
		return "", false
	}
	lower := strings.ToLower(message)

	for _, style := range styleDetectionOrder {
		for _, phrase := range d.patterns[style] {
			if strings.Contains(lower, phrase) {
				return style, true
			}
		}
	}
	return "", false
}

// NotifyChange invokes the change callback, if set.
func (d *StyleFeedbackDetector) NotifyChange(userID string, style CommunicationStyle) {
	if d.onChange != nil {
		d.onChange(userID, style)
	}
}
