package aisdk

import "testing"

func TestStyleFeedbackDetector_DetectsEachStyle(t *testing.T) {
	d := NewStyleFeedbackDetector(nil, 0, nil)

	cases := []struct {
		message string
		want    CommunicationStyle
	}{
		{"please be more formal with me", StyleFormal},
		{"you're too stiff, lighten up", StyleCasual},
		{"can you get technical here?", StyleTechnical},
		{"make it fun!", StyleCreative},
		{"go easy on me today", StyleSupportive},
		{"Be More Formal", StyleFormal}, // case-insensitive
	}
	for _, tc := range cases {
		got, ok := d.Detect(tc.message)
		if !ok {
			t.Fatalf("expected a match for %q", tc.message)
		}
		if got != tc.want {
			t.Fatalf("message %q: expected %s, got %s", tc.message, tc.want, got)
		}
	}
}

func TestStyleFeedbackDetector_IgnoresConversation(t *testing.T) {
	d := NewStyleFeedbackDetector(nil, 0, nil)

	if _, ok := d.Detect("what's the weather like in Berlin?"); ok {
		t.Fatal("plain conversation must not match")
	}
	if _, ok := d.Detect(""); ok {
		t.Fatal("empty message must not match")
	}
	if _, ok := d.Detect("   "); ok {
		t.Fatal("whitespace message must not match")
	}
}

func TestStyleFeedbackDetector_LongMessagesSkipped(t *testing.T) {
	d := NewStyleFeedbackDetector(nil, 20, nil)

	if _, ok := d.Detect("this is a long story and by the way be more formal about it"); ok {
		t.Fatal("messages over maxLen are conversation, not feedback")
	}
	if _, ok := d.Detect("be more formal"); !ok {
		t.Fatal("short message within maxLen must match")
	}
}

func TestStyleFeedbackDetector_FixedDetectionOrder(t *testing.T) {
	// A message matching two styles always resolves to the earlier one
	// in styleDetectionOrder.
	d := NewStyleFeedbackDetector(map[CommunicationStyle][]string{
		StyleFormal: {"change it"},
		StyleCasual: {"change it"},
	}, 0, nil)

	got, ok := d.Detect("change it")
	if !ok || got != StyleFormal {
		t.Fatalf("expected formal to win the tie, got %s (ok=%v)", got, ok)
	}
}

func TestStyleFeedbackDetector_NotifyChange(t *testing.T) {
	var gotUser string
	var gotStyle CommunicationStyle
	d := NewStyleFeedbackDetector(nil, 0, func(userID string, style CommunicationStyle) {
		gotUser, gotStyle = userID, style
	})

	d.NotifyChange("u1", StyleCreative)
	if gotUser != "u1" || gotStyle != StyleCreative {
		t.Fatalf("callback got (%s, %s)", gotUser, gotStyle)
	}

	// Nil callback is a no-op, not a panic.
	NewStyleFeedbackDetector(nil, 0, nil).NotifyChange("u1", StyleFormal)
}
