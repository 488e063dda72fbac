package adb

import (
	"os"
	"strings"
)

// DefaultAdbPort is the port the local adb server listens on.
const DefaultAdbPort = "5037"

func GetSocketTypeAndAddress(socketAddress string) (string, string) {
	chunks := strings.Split(socketAddress, "://")
	if len(chunks) != 2 {
		panic("Needs scheme://address")
	}
	return chunks[0], chunks[1]
}

// GetAdbSocket returns the socket address of the adb server to connect to.
// Set ADB_SERVER_SOCKET to override the default of tcp://127.0.0.1:5037,
// plain host:port values are interpreted as tcp addresses.
func GetAdbSocket() string {
	socketOverride := os.Getenv("ADB_SERVER_SOCKET")
	if socketOverride != "" {
		if strings.Contains(socketOverride, "://") {
			return socketOverride
		}
		return "tcp://" + socketOverride
	}
	return "tcp://127.0.0.1:" + DefaultAdbPort
}
