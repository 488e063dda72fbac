package accessibility_test

import (
	"encoding/json"
	"testing"

	"github.com/axdroid/go-axdroid/adb/accessibility"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackFlagNames(t *testing.T) {
	testCases := map[string]struct {
		flags    accessibility.FeedbackFlag
		expected []string
	}{
		"no bits set":       {0, []string{"None"}},
		"spoken only":       {accessibility.FeedbackSpoken, []string{"Spoken"}},
		"spoken and visual": {accessibility.FeedbackSpoken | accessibility.FeedbackVisual, []string{"Spoken", "Visual"}},
		"all mask":          {accessibility.FeedbackAllMask, []string{"Spoken", "Haptic", "Audible", "Visual", "Generic", "Braille"}},
	}

	for name, tc := range testCases {
		actual := tc.flags.Names()
		assert.Equal(t, tc.expected, actual, name)
		assert.NotEmpty(t, actual, name)
	}
}

func TestServiceInfoJSONContainsDerivedNames(t *testing.T) {
	info := accessibility.ServiceInfo{
		ID:            "com.example/.TalkService",
		PackageName:   "com.example",
		ServiceName:   "com.example.TalkService",
		FeedbackFlags: accessibility.FeedbackSpoken | accessibility.FeedbackHaptic,
	}
	encoded, err := json.Marshal(info)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, []interface{}{"Spoken", "Haptic"}, decoded["feedbackTypeNames"])
	assert.Equal(t, float64(3), decoded["feedbackType"])
	// empty optional fields stay out of the json
	_, hasIcon := decoded["icon"]
	assert.False(t, hasIcon)
}
