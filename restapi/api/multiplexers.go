package api

import (
	"sync"
	"time"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/axdroid/go-axdroid/adb/accessibility"
)

// The underlying monitor is a single resource per device, so one Multiplexer
// instance is kept per serial and shared by all streaming clients.
var (
	multiplexersMu sync.Mutex
	multiplexers   = map[string]*accessibility.Multiplexer{}
)

func multiplexerFor(device adb.DeviceEntry) *accessibility.Multiplexer {
	multiplexersMu.Lock()
	defer multiplexersMu.Unlock()
	if multiplexer, ok := multiplexers[device.Serial]; ok {
		return multiplexer
	}
	bridge := accessibility.New(device)
	monitor := accessibility.NewShellSettingsMonitor(device, time.Second)
	multiplexer := accessibility.NewMultiplexer(bridge, monitor)
	multiplexers[device.Serial] = multiplexer
	return multiplexer
}

// closeMultiplexers stops every active multiplexer and empties the registry,
// disarming their monitors. Called on server shutdown.
func closeMultiplexers() {
	multiplexersMu.Lock()
	defer multiplexersMu.Unlock()
	for serial, multiplexer := range multiplexers {
		multiplexer.Close()
		delete(multiplexers, serial)
	}
}
