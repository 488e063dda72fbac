package adb_test

import (
	"testing"

	adb "github.com/axdroid/go-axdroid/adb"

	"github.com/stretchr/testify/assert"
)

const devicesFixture = `emulator-5554          device product:sdk_gphone64_x86_64 model:sdk_gphone64_x86_64 device:emu64xa transport_id:1
R58M123ABCD            device usb:1-1 product:beyond1ltexx model:SM_G973F device:beyond1 transport_id:2
0a1b2c3d               unauthorized transport_id:3
`

func TestDeviceListFromBytes(t *testing.T) {
	deviceList := adb.DeviceListfromBytes([]byte(devicesFixture))
	assert.Len(t, deviceList.DeviceList, 3)

	emulator := deviceList.DeviceList[0]
	assert.Equal(t, "emulator-5554", emulator.Serial)
	assert.Equal(t, "device", emulator.State)
	assert.Equal(t, "sdk_gphone64_x86_64", emulator.Model)
	assert.Equal(t, "emu64xa", emulator.Device)
	assert.Equal(t, "1", emulator.TransportID)
	assert.True(t, emulator.IsUsable())

	phone := deviceList.DeviceList[1]
	assert.Equal(t, "SM_G973F", phone.Model)
	assert.Equal(t, "beyond1ltexx", phone.Product)

	unauthorized := deviceList.DeviceList[2]
	assert.Equal(t, "unauthorized", unauthorized.State)
	assert.False(t, unauthorized.IsUsable())
}

func TestDeviceListFromBytesSkipsGarbage(t *testing.T) {
	deviceList := adb.DeviceListfromBytes([]byte("\n\nsingleword\n   \n"))
	assert.Len(t, deviceList.DeviceList, 0)
}

func TestStringConversion(t *testing.T) {
	entryOne := adb.DeviceEntry{Serial: "serial0", State: "device"}
	entryTwo := adb.DeviceEntry{Serial: "serial1", State: "device"}

	testCases := map[string]struct {
		devices        adb.DeviceList
		expectedOutput string
	}{
		"zero entries":          {adb.DeviceList{DeviceList: make([]adb.DeviceEntry, 0)}, ""},
		"one entry":             {adb.DeviceList{DeviceList: []adb.DeviceEntry{entryOne}}, "serial0\n"},
		"more than one entries": {adb.DeviceList{DeviceList: []adb.DeviceEntry{entryOne, entryTwo}}, "serial0\nserial1\n"},
	}

	for _, tc := range testCases {
		actual := tc.devices.String()
		assert.Equal(t, tc.expectedOutput, actual)
	}
}
