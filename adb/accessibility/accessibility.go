package accessibility

import (
	"fmt"
	"strings"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/axdroid/go-axdroid/adb/packages"
	log "github.com/sirupsen/logrus"
)

// Bridge answers point-in-time queries against the accessibility registry of
// one device. Bridges keep no state between calls, every call is independently
// retriable.
type Bridge interface {
	// EnabledServices enumerates the currently enabled accessibility services.
	EnabledServices() ([]ServiceInfo, error)
	// HasEnabledServices reports whether at least one accessibility service is enabled.
	HasEnabledServices() (bool, error)
	// OpenAccessibilitySettings opens the accessibility settings screen on the
	// device. Fire and forget, failures are logged.
	OpenAccessibilitySettings()
}

type deviceBridge struct {
	device adb.DeviceEntry
	// enrichment lookups, replaceable in tests
	packageDetails func(adb.DeviceEntry, string) (packages.Details, error)
	appIcon        func(adb.DeviceEntry, string) (string, error)
}

// New creates a Bridge to the accessibility registry of the given device.
func New(device adb.DeviceEntry) Bridge {
	return &deviceBridge{
		device:         device,
		packageDetails: packages.GetDetails,
		appIcon:        packages.AppIcon,
	}
}

func (bridge *deviceBridge) EnabledServices() ([]ServiceInfo, error) {
	value, err := adb.RunShellCommandTrimmed(bridge.device, "settings get secure "+enabledServicesSetting)
	if err != nil {
		return nil, fmt.Errorf("failed reading enabled accessibility services: %v", err)
	}
	ids := ParseEnabledServiceIDs(value)
	if len(ids) == 0 {
		return []ServiceInfo{}, nil
	}

	records := map[string]ServiceRecord{}
	dump, err := adb.RunShellCommand(bridge.device, "dumpsys accessibility")
	if err != nil {
		log.Warnf("dumpsys accessibility failed, feedback types will be missing: %v", err)
	} else {
		records = ParseDumpsysServices(dump)
	}

	services := make([]ServiceInfo, 0, len(ids))
	for _, id := range ids {
		services = append(services, bridge.describeService(id, records))
	}
	return services, nil
}

// describeService builds the snapshot for one service id. Enrichment is
// opportunistic, a failing lookup degrades the entry instead of the batch.
func (bridge *deviceBridge) describeService(id string, records map[string]ServiceRecord) ServiceInfo {
	packageName, serviceName := SplitComponentName(id)
	info := ServiceInfo{
		ID:            id,
		PackageName:   packageName,
		ServiceName:   serviceName,
		Label:         simpleClassName(serviceName),
		OwnerAppLabel: packageName,
	}
	if record, ok := records[id]; ok {
		info.FeedbackFlags = record.FeedbackFlags
		info.IsAccessibilityTool = record.IsAccessibilityTool
	}
	details, err := bridge.packageDetails(bridge.device, packageName)
	if err != nil {
		log.Debugf("no package details for %s: %v", packageName, err)
	} else {
		info.IsSystemApp = details.System
		info.SourceDir = details.SourceDir
	}
	icon, err := bridge.appIcon(bridge.device, packageName)
	if err != nil {
		log.Debugf("no icon for %s: %v", packageName, err)
	} else {
		info.Icon = icon
	}
	return info
}

func (bridge *deviceBridge) HasEnabledServices() (bool, error) {
	// accessibility_enabled is a dedicated flag and much cheaper than a
	// full enumeration with its per service enrichment
	value, err := adb.RunShellCommandTrimmed(bridge.device, "settings get secure "+accessibilityEnabledFlag)
	if err != nil {
		return false, fmt.Errorf("failed reading accessibility flag: %v", err)
	}
	switch value {
	case "1":
		return true, nil
	case "0", settingAbsent, "":
		return false, nil
	}
	services, err := bridge.EnabledServices()
	if err != nil {
		return false, err
	}
	return len(services) > 0, nil
}

func (bridge *deviceBridge) OpenAccessibilitySettings() {
	_, err := adb.RunShellCommand(bridge.device, "am start -a android.settings.ACCESSIBILITY_SETTINGS")
	if err != nil {
		log.Warnf("could not open accessibility settings on %s: %v", bridge.device.Serial, err)
	}
}

func simpleClassName(serviceName string) string {
	if index := strings.LastIndex(serviceName, "."); index >= 0 {
		return serviceName[index+1:]
	}
	return serviceName
}
