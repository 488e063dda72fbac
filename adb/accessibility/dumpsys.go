package accessibility

import (
	"regexp"
	"strings"
)

// secure settings keys owned by the accessibility manager
const (
	enabledServicesSetting     = "enabled_accessibility_services"
	accessibilityEnabledFlag   = "accessibility_enabled"
	settingAbsent              = "null"
	serviceComponentsSeparator = ":"
)

// ParseEnabledServiceIDs parses the value of the enabled_accessibility_services
// secure setting, a colon separated list of component names. The setting reads
// "null" when it was never written.
func ParseEnabledServiceIDs(settingValue string) []string {
	trimmed := strings.TrimSpace(settingValue)
	if trimmed == "" || trimmed == settingAbsent {
		return []string{}
	}
	components := strings.Split(trimmed, serviceComponentsSeparator)
	ids := make([]string, 0, len(components))
	for _, component := range components {
		component = strings.TrimSpace(component)
		if component == "" {
			continue
		}
		ids = append(ids, ExpandComponentName(component))
	}
	return ids
}

// ExpandComponentName resolves the "pkg/.Relative" shorthand of component names
// to the full "pkg/pkg.Relative" form the accessibility manager reports.
func ExpandComponentName(component string) string {
	packageName, serviceName, found := strings.Cut(component, "/")
	if !found {
		return component
	}
	if strings.HasPrefix(serviceName, ".") {
		return packageName + "/" + packageName + serviceName
	}
	return component
}

// SplitComponentName returns package and service class of a component id.
func SplitComponentName(component string) (packageName string, serviceName string) {
	packageName, serviceName, found := strings.Cut(ExpandComponentName(component), "/")
	if !found {
		return component, ""
	}
	return packageName, serviceName
}

// ServiceRecord is what dumpsys accessibility knows about one installed service.
type ServiceRecord struct {
	ID                  string
	FeedbackFlags       FeedbackFlag
	IsAccessibilityTool bool
}

var (
	recordIDPattern       = regexp.MustCompile(`id:\s*([\w./$]+)`)
	feedbackTypesPattern  = regexp.MustCompile(`feedbackTypes:\[([^\]]*)\]`)
	a11yToolPattern       = regexp.MustCompile(`isAccessibilityTool:\s*(true|false)`)
	feedbackNameToFlagMap = map[string]FeedbackFlag{
		"FEEDBACK_SPOKEN":   FeedbackSpoken,
		"FEEDBACK_HAPTIC":   FeedbackHaptic,
		"FEEDBACK_AUDIBLE":  FeedbackAudible,
		"FEEDBACK_VISUAL":   FeedbackVisual,
		"FEEDBACK_GENERIC":  FeedbackGeneric,
		"FEEDBACK_BRAILLE":  FeedbackBraille,
		"FEEDBACK_ALL_MASK": FeedbackAllMask,
	}
)

// ParseDumpsysServices extracts the AccessibilityServiceInfo records from
// `dumpsys accessibility` output, keyed by expanded component id. The dump
// format moves between Android versions, so every attribute is optional and
// unparseable records are skipped rather than failing the whole dump.
func ParseDumpsysServices(output string) map[string]ServiceRecord {
	records := map[string]ServiceRecord{}
	chunks := strings.Split(output, "AccessibilityServiceInfo[")
	for _, chunk := range chunks[1:] {
		idMatch := recordIDPattern.FindStringSubmatch(chunk)
		if idMatch == nil {
			continue
		}
		record := ServiceRecord{ID: ExpandComponentName(idMatch[1])}
		if feedbackMatch := feedbackTypesPattern.FindStringSubmatch(chunk); feedbackMatch != nil {
			record.FeedbackFlags = parseFeedbackTypes(feedbackMatch[1])
		}
		if toolMatch := a11yToolPattern.FindStringSubmatch(chunk); toolMatch != nil {
			record.IsAccessibilityTool = toolMatch[1] == "true"
		}
		records[record.ID] = record
	}
	return records
}

func parseFeedbackTypes(list string) FeedbackFlag {
	var flags FeedbackFlag
	for _, name := range strings.Split(list, ",") {
		flags |= feedbackNameToFlagMap[strings.TrimSpace(name)]
	}
	return flags
}
