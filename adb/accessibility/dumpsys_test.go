package accessibility_test

import (
	"testing"

	"github.com/axdroid/go-axdroid/adb/accessibility"

	"github.com/stretchr/testify/assert"
)

func TestParseEnabledServiceIDs(t *testing.T) {
	testCases := map[string]struct {
		settingValue string
		expected     []string
	}{
		"unset setting":  {"null", []string{}},
		"empty setting":  {"", []string{}},
		"single service": {"com.example/.TalkService", []string{"com.example/com.example.TalkService"}},
		"two services": {
			"com.example/.TalkService:com.other/com.other.svc.RemoteService",
			[]string{"com.example/com.example.TalkService", "com.other/com.other.svc.RemoteService"},
		},
		"trailing separator": {"com.example/.TalkService:", []string{"com.example/com.example.TalkService"}},
	}

	for name, tc := range testCases {
		assert.Equal(t, tc.expected, accessibility.ParseEnabledServiceIDs(tc.settingValue), name)
	}
}

func TestSplitComponentName(t *testing.T) {
	packageName, serviceName := accessibility.SplitComponentName("com.example/.TalkService")
	assert.Equal(t, "com.example", packageName)
	assert.Equal(t, "com.example.TalkService", serviceName)

	packageName, serviceName = accessibility.SplitComponentName("brokenvalue")
	assert.Equal(t, "brokenvalue", packageName)
	assert.Equal(t, "", serviceName)
}

const dumpsysFixture = `
ACCESSIBILITY MANAGER (dumpsys accessibility)
currentUserId=0
User state[attributes:: id=0, currentUser=true, touchExplorationEnabled=false]
    installed services:{
        AccessibilityServiceInfo[event types: TYPES_ALL_MASK, feedbackTypes:[FEEDBACK_SPOKEN, FEEDBACK_HAPTIC, FEEDBACK_AUDIBLE], capabilities: 32, notificationTimeout: 100, id: com.google.android.marvin.talkback/.TalkBackService, isAccessibilityTool: true]
        AccessibilityServiceInfo[event types: TYPE_VIEW_CLICKED, feedbackTypes:[FEEDBACK_GENERIC], capabilities: 1, notificationTimeout: 0, id: com.remote.control/com.remote.control.InputService, isAccessibilityTool: false]
        AccessibilityServiceInfo[broken record without an id]
    }
    enabled services:{com.google.android.marvin.talkback/.TalkBackService}
`

func TestParseDumpsysServices(t *testing.T) {
	records := accessibility.ParseDumpsysServices(dumpsysFixture)
	assert.Len(t, records, 2)

	talkback, ok := records["com.google.android.marvin.talkback/com.google.android.marvin.talkback.TalkBackService"]
	assert.True(t, ok)
	assert.Equal(t, accessibility.FeedbackSpoken|accessibility.FeedbackHaptic|accessibility.FeedbackAudible, talkback.FeedbackFlags)
	assert.True(t, talkback.IsAccessibilityTool)

	remote, ok := records["com.remote.control/com.remote.control.InputService"]
	assert.True(t, ok)
	assert.Equal(t, accessibility.FeedbackGeneric, remote.FeedbackFlags)
	assert.False(t, remote.IsAccessibilityTool)
}

func TestParseDumpsysServicesAllMask(t *testing.T) {
	records := accessibility.ParseDumpsysServices(
		"AccessibilityServiceInfo[feedbackTypes:[FEEDBACK_ALL_MASK], id: com.example/.Svc]")
	record := records["com.example/com.example.Svc"]
	assert.Equal(t, accessibility.FeedbackAllMask, record.FeedbackFlags)
}
