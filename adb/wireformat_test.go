package adb_test

import (
	"bytes"
	"testing"

	adb "github.com/axdroid/go-axdroid/adb"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	codec := adb.NewWireCodec()

	testCases := map[string]struct {
		request  string
		expected string
	}{
		"host version":  {"host:version", "000chost:version"},
		"empty request": {"", "0000"},
		"transport":     {"host:transport:emulator-5554", "001chost:transport:emulator-5554"},
	}

	for _, tc := range testCases {
		actual, err := codec.Encode(tc.request)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, string(actual))
	}
}

func TestDecodeStatusOkay(t *testing.T) {
	codec := adb.NewWireCodec()
	err := codec.DecodeStatus(bytes.NewBufferString("OKAY"))
	assert.NoError(t, err)
}

func TestDecodeStatusFail(t *testing.T) {
	codec := adb.NewWireCodec()
	err := codec.DecodeStatus(bytes.NewBufferString("FAIL0014device 'x' not found"))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "device 'x' not found")
	}
}

func TestDecodeStatusGarbage(t *testing.T) {
	codec := adb.NewWireCodec()
	err := codec.DecodeStatus(bytes.NewBufferString("WHAT"))
	assert.Error(t, err)
}

func TestDecodeBlock(t *testing.T) {
	codec := adb.NewWireCodec()
	payload, err := codec.DecodeBlock(bytes.NewBufferString("00040029"))
	assert.NoError(t, err)
	assert.Equal(t, "0029", string(payload))
}

func TestDecodeBlockInvalidLength(t *testing.T) {
	codec := adb.NewWireCodec()
	_, err := codec.DecodeBlock(bytes.NewBufferString("zzzz"))
	assert.Error(t, err)
}
