// Package remoteaccess detects well known remote-access and screen-sharing
// applications installed on an Android device. These apps typically drive the
// device through an accessibility service, so they are checked alongside the
// accessibility registry.
package remoteaccess

import (
	"strings"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/axdroid/go-axdroid/adb/packages"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// AppInfo describes one installed remote-access application.
type AppInfo struct {
	PackageName string `json:"packageName"`
	// AppName is the curated display name of known tools, for custom
	// packages it falls back to the package name.
	AppName string `json:"appName"`
	// Icon is a base64 png data uri, empty when icon retrieval failed.
	Icon string `json:"icon,omitempty"`
}

// seedApps are the well known remote-access tools checked on every query.
var seedApps = []AppInfo{
	{PackageName: "com.teamviewer.teamviewer.market.mobile", AppName: "TeamViewer"},
	{PackageName: "com.teamviewer.quicksupport.market", AppName: "TeamViewer QuickSupport"},
	{PackageName: "com.teamviewer.host.market", AppName: "TeamViewer Host"},
	{PackageName: "com.anydesk.anydeskandroid", AppName: "AnyDesk"},
	{PackageName: "com.anydesk.adcontrol.ad1", AppName: "AnyDesk Control Plugin"},
	{PackageName: "com.sand.airdroid", AppName: "AirDroid"},
	{PackageName: "com.sand.airmirror", AppName: "AirMirror"},
	{PackageName: "com.sand.aircast", AppName: "AirCast"},
	{PackageName: "com.splashtop.streamer", AppName: "Splashtop Streamer"},
	{PackageName: "com.splashtop.remote.pad.v2", AppName: "Splashtop Personal"},
	{PackageName: "com.splashtop.sos", AppName: "Splashtop SOS"},
	{PackageName: "com.carriez.flutter_hbb", AppName: "RustDesk"},
	{PackageName: "com.google.chromeremotedesktop", AppName: "Chrome Remote Desktop"},
	{PackageName: "net.christianbeier.droidvnc_ng", AppName: "droidVNC-NG"},
	{PackageName: "com.realvnc.viewer.android", AppName: "RealVNC Viewer"},
	{PackageName: "com.zoho.assist.agent", AppName: "Zoho Assist - Customer"},
	{PackageName: "com.logmein.rescuemobile", AppName: "LogMeIn Rescue+Mobile"},
	{PackageName: "com.logmein.ignitionpro.android", AppName: "LogMeIn Pro"},
	{PackageName: "si.islonline.isllight.mobile.android", AppName: "ISL Light"},
	{PackageName: "com.aweray.remote", AppName: "AweSun Remote Desktop"},
	{PackageName: "com.remotepc.viewer", AppName: "RemotePC"},
	{PackageName: "com.monect.portable", AppName: "Monect PC Remote"},
}

// SeedPackages returns the package names of the built-in seed list.
func SeedPackages() []string {
	names := make([]string, len(seedApps))
	for i, app := range seedApps {
		names[i] = app.PackageName
	}
	return names
}

// Candidates merges the seed list with custom packages. Custom packages
// already present in the seed list are dropped, the rest is appended in the
// given order with the package name doubling as display name.
func Candidates(customPackages []string) []AppInfo {
	known := map[string]bool{}
	candidates := slices.Clone(seedApps)
	for _, app := range seedApps {
		known[app.PackageName] = true
	}
	for _, custom := range customPackages {
		custom = strings.TrimSpace(custom)
		if custom == "" || known[custom] {
			continue
		}
		known[custom] = true
		candidates = append(candidates, AppInfo{PackageName: custom, AppName: custom})
	}
	return candidates
}

// ListInstalled returns the subset of candidate remote-access apps installed
// on the device, with icons resolved opportunistically.
func ListInstalled(device adb.DeviceEntry, customPackages []string) ([]AppInfo, error) {
	installedList, err := packages.ListPackages(device)
	if err != nil {
		return nil, err
	}
	installed := map[string]bool{}
	for _, packageName := range installedList {
		installed[packageName] = true
	}
	log.Debugf("device %s has %d packages installed, checking against %d candidates",
		device.Serial, len(installed), len(seedApps)+len(customPackages))

	result := make([]AppInfo, 0)
	for _, candidate := range Candidates(customPackages) {
		if !installed[candidate.PackageName] {
			continue
		}
		icon, err := packages.AppIcon(device, candidate.PackageName)
		if err != nil {
			log.Debugf("no icon for %s: %v", candidate.PackageName, err)
		} else {
			candidate.Icon = icon
		}
		result = append(result, candidate)
	}
	return result, nil
}
