// Package accessibility exposes the accessibility service registry of an
// Android device: which services are currently enabled, whether any are, and a
// subscription mechanism that notifies callers when the enabled set changes.
package accessibility

import "encoding/json"

// FeedbackFlag is the bitmask of sensory channels an accessibility service
// uses to communicate with the user. Values match the platform's
// AccessibilityServiceInfo feedback constants.
type FeedbackFlag uint32

const (
	FeedbackSpoken  FeedbackFlag = 1 << iota // 1
	FeedbackHaptic                           // 2
	FeedbackAudible                          // 4
	FeedbackVisual                           // 8
	FeedbackGeneric                          // 16
	FeedbackBraille                          // 32
)

// FeedbackAllMask has every feedback bit set.
const FeedbackAllMask = FeedbackSpoken | FeedbackHaptic | FeedbackAudible |
	FeedbackVisual | FeedbackGeneric | FeedbackBraille

// canonical name order for Names, lowest bit first
var feedbackNames = []struct {
	flag FeedbackFlag
	name string
}{
	{FeedbackSpoken, "Spoken"},
	{FeedbackHaptic, "Haptic"},
	{FeedbackAudible, "Audible"},
	{FeedbackVisual, "Visual"},
	{FeedbackGeneric, "Generic"},
	{FeedbackBraille, "Braille"},
}

// Names derives the human readable labels for all set bits, in canonical
// order. A zero flag yields ["None"], the result is never empty.
func (flags FeedbackFlag) Names() []string {
	if flags == 0 {
		return []string{"None"}
	}
	names := make([]string, 0, len(feedbackNames))
	for _, entry := range feedbackNames {
		if flags&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

// ServiceInfo is an immutable snapshot of one enabled accessibility service.
type ServiceInfo struct {
	// ID is the platform unique identifier, packageName/serviceClass.
	ID            string       `json:"id"`
	Label         string       `json:"label"`
	OwnerAppLabel string       `json:"ownerAppLabel"`
	PackageName   string       `json:"packageName"`
	ServiceName   string       `json:"serviceName"`
	FeedbackFlags FeedbackFlag `json:"feedbackType"`
	// IsAccessibilityTool is true for services declaring themselves assistive technology.
	IsAccessibilityTool bool `json:"isAccessibilityTool"`
	IsSystemApp         bool `json:"isSystemApp"`
	// Icon is a base64 png data uri, empty when icon retrieval failed.
	Icon      string `json:"icon,omitempty"`
	SourceDir string `json:"sourceDir,omitempty"`
}

// FeedbackFlagNames derives the labels of FeedbackFlags. It is a pure function
// of the bitmask and therefore not a settable field.
func (info ServiceInfo) FeedbackFlagNames() []string {
	return info.FeedbackFlags.Names()
}

// MarshalJSON includes the derived feedback names next to the raw bitmask.
func (info ServiceInfo) MarshalJSON() ([]byte, error) {
	type alias ServiceInfo
	return json.Marshal(struct {
		alias
		FeedbackFlagNames []string `json:"feedbackTypeNames"`
	}{alias(info), info.FeedbackFlagNames()})
}
