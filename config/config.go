// Package config reads the static build/startup configuration from the
// environment. A .env file next to the binary is picked up automatically.
package config

import (
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// CustomRemoteAccessPackages returns extra package names to check during
// remote-access app detection, from the comma separated
// AXDROID_CUSTOM_PACKAGES variable.
func CustomRemoteAccessPackages() []string {
	value := os.Getenv("AXDROID_CUSTOM_PACKAGES")
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	packages := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			packages = append(packages, part)
		}
	}
	return packages
}

// JSONLogDisabled reports whether AXDROID_NO_JSON_LOG was set to disable the
// default JSON log formatter.
func JSONLogDisabled() bool {
	return os.Getenv("AXDROID_NO_JSON_LOG") != ""
}
