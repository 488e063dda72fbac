package api

import (
	"testing"

	"github.com/axdroid/go-axdroid/adb"

	"github.com/stretchr/testify/assert"
)

func TestMultiplexerRegistry(t *testing.T) {
	device := adb.DeviceEntry{Serial: "emulator-5554", State: "device"}
	other := adb.DeviceEntry{Serial: "R58M123ABCD", State: "device"}

	first := multiplexerFor(device)
	assert.Same(t, first, multiplexerFor(device))
	assert.NotSame(t, first, multiplexerFor(other))

	closeMultiplexers()
	assert.Empty(t, multiplexers)
	assert.False(t, first.IsListening())
	// a later request gets a fresh instance
	assert.NotSame(t, first, multiplexerFor(device))
	closeMultiplexers()
}
