package packages

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/axdroid/go-axdroid/adb"
)

// density directories in ascending quality, higher index wins when picking an icon
var densityRank = []string{"ldpi", "mdpi", "tvdpi", "hdpi", "xhdpi", "xxhdpi", "xxxhdpi", "anydpi"}

// AppIcon pulls the apk of the given package and extracts its launcher icon as
// a base64 png data uri. Icons are not queryable through the shell, so this
// pulls the base apk through the sync: service and picks the best matching
// png from the zip. Vector-only apps make this fail, callers treat a missing
// icon as non-fatal.
func AppIcon(device adb.DeviceEntry, packageName string) (string, error) {
	apkPath, err := ApkPath(device, packageName)
	if err != nil {
		return "", err
	}
	apk, err := adb.PullFile(device, apkPath)
	if err != nil {
		return "", fmt.Errorf("failed pulling apk of %s: %v", packageName, err)
	}
	return ExtractLauncherIcon(apk)
}

// ExtractLauncherIcon finds the highest density launcher icon png inside apk
// contents and returns it as a data uri.
func ExtractLauncherIcon(apk []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(apk), int64(len(apk)))
	if err != nil {
		return "", fmt.Errorf("apk is not a readable zip: %v", err)
	}
	var best *zip.File
	bestRank := -1
	for _, file := range reader.File {
		rank := iconRank(file.Name)
		if rank > bestRank {
			best = file
			bestRank = rank
		}
	}
	if best == nil {
		return "", fmt.Errorf("no png launcher icon in apk")
	}
	rc, err := best.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	var png bytes.Buffer
	_, err = png.ReadFrom(rc)
	if err != nil {
		return "", fmt.Errorf("failed decompressing icon %s: %v", best.Name, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png.Bytes()), nil
}

// iconRank scores a zip entry as launcher icon candidate, -1 means not a candidate.
func iconRank(name string) int {
	if !strings.HasSuffix(name, ".png") || !strings.HasPrefix(name, "res/") {
		return -1
	}
	base := name[strings.LastIndex(name, "/")+1:]
	if !strings.HasPrefix(base, "ic_launcher") {
		return -1
	}
	rank := 0
	if !strings.Contains(base, "_round") && !strings.Contains(base, "_foreground") && !strings.Contains(base, "_background") {
		// plain launcher icons beat adaptive icon layers
		rank += len(densityRank)
	}
	for i, density := range densityRank {
		if strings.Contains(name, "-"+density) {
			rank += i
			break
		}
	}
	return rank
}
