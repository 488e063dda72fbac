package adb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
)

var propLine = regexp.MustCompile(`^\[(.+?)\]: \[(.*)\]$`)

// GetProperties dumps the full system property table of the device into a map.
func GetProperties(device DeviceEntry) (map[string]string, error) {
	output, err := RunShellCommand(device, "getprop")
	if err != nil {
		return nil, err
	}
	return ParseProperties(output), nil
}

// ParseProperties parses `getprop` output, one "[key]: [value]" per line.
func ParseProperties(output string) map[string]string {
	properties := map[string]string{}
	for _, line := range strings.Split(output, "\n") {
		match := propLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		properties[match[1]] = match[2]
	}
	return properties
}

// GetProperty reads a single system property.
func GetProperty(device DeviceEntry, key string) (string, error) {
	return RunShellCommandTrimmed(device, "getprop "+key)
}

// GetAndroidVersion reads the Android release version of the device as a
// semver so callers can gate features on OS versions. Android reports bare
// major versions like "14", semver fills in the missing parts.
func GetAndroidVersion(device DeviceEntry) (*semver.Version, error) {
	release, err := GetProperty(device, "ro.build.version.release")
	if err != nil {
		return nil, err
	}
	version, err := semver.NewVersion(release)
	if err != nil {
		return nil, fmt.Errorf("cannot parse Android version '%s' of device %s: %v", release, device.Serial, err)
	}
	return version, nil
}
