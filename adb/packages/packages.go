// Package packages wraps the package manager of an Android device. It answers
// which apps are installed, where their apks live and whether they are system
// apps, all through the device's shell: service.
package packages

import (
	"fmt"
	"strings"

	"github.com/axdroid/go-axdroid/adb"
)

// ListPackages returns the package names of all installed applications.
func ListPackages(device adb.DeviceEntry) ([]string, error) {
	output, err := adb.RunShellCommand(device, "pm list packages")
	if err != nil {
		return nil, err
	}
	return ParsePackageList(output), nil
}

// ParsePackageList parses `pm list packages` output, one "package:<name>" per line.
func ParsePackageList(output string) []string {
	lines := strings.Split(output, "\n")
	packages := make([]string, 0, len(lines))
	for _, line := range lines {
		name, found := strings.CutPrefix(strings.TrimSpace(line), "package:")
		if !found || name == "" {
			continue
		}
		packages = append(packages, name)
	}
	return packages
}

// ApkPath returns the path of the base apk of the given package on the device.
func ApkPath(device adb.DeviceEntry, packageName string) (string, error) {
	output, err := adb.RunShellCommand(device, "pm path "+packageName)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(output, "\n") {
		path, found := strings.CutPrefix(strings.TrimSpace(line), "package:")
		if found && strings.HasSuffix(path, "base.apk") {
			return path, nil
		}
		if found && path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("package %s has no apk path, is it installed?", packageName)
}

// Details contains the subset of `dumpsys package` we care about.
type Details struct {
	PackageName string
	SourceDir   string
	System      bool
}

// GetDetails queries the package manager for install location and flags of one package.
func GetDetails(device adb.DeviceEntry, packageName string) (Details, error) {
	output, err := adb.RunShellCommand(device, "dumpsys package "+packageName)
	if err != nil {
		return Details{}, err
	}
	return ParseDetails(packageName, output), nil
}

// ParseDetails extracts codePath and the SYSTEM flag from `dumpsys package` output.
// Missing attributes leave the corresponding field empty, the caller decides how
// much it needs.
func ParseDetails(packageName, output string) Details {
	details := Details{PackageName: packageName}
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if value, found := strings.CutPrefix(trimmed, "codePath="); found && details.SourceDir == "" {
			details.SourceDir = value
			continue
		}
		if flags, found := strings.CutPrefix(trimmed, "flags=["); found {
			for _, flag := range strings.Fields(strings.TrimSuffix(flags, "]")) {
				if flag == "SYSTEM" {
					details.System = true
				}
			}
		}
	}
	return details
}
