package adb

import (
	"fmt"
	"strings"
)

// DeviceList is a simple wrapper for an
// array of DeviceEntry
type DeviceList struct {
	DeviceList []DeviceEntry
}

// DeviceEntry is one device known to the adb server. Serial is the identifier
// used to address the device in transport requests, State tells whether the
// device is usable ("device") or not ("offline", "unauthorized").
type DeviceEntry struct {
	Serial      string
	State       string
	Product     string
	Model       string
	Device      string
	TransportID string
}

// IsUsable checks if the device accepts transport requests.
func (device DeviceEntry) IsUsable() bool {
	return device.State == "device"
}

// String returns a list of all serials in a formatted string
func (deviceList DeviceList) String() string {
	var sb strings.Builder
	for _, element := range deviceList.DeviceList {
		sb.WriteString(element.Serial)
		sb.WriteString("\n")
	}
	return sb.String()
}

// CreateMapForJSONConverter creates a simple json ready map containing all serials
func (deviceList DeviceList) CreateMapForJSONConverter() map[string]interface{} {
	devices := make([]string, len(deviceList.DeviceList))
	for i, element := range deviceList.DeviceList {
		devices[i] = element.Serial
	}
	return map[string]interface{}{"deviceList": devices}
}

// DeviceListfromBytes parses a DeviceList from the line based output of the
// host:devices-l service. Lines not describing a device are skipped.
func DeviceListfromBytes(payload []byte) DeviceList {
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	entries := make([]DeviceEntry, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		entry := DeviceEntry{Serial: fields[0], State: fields[1]}
		for _, field := range fields[2:] {
			key, value, found := strings.Cut(field, ":")
			if !found {
				continue
			}
			switch key {
			case "product":
				entry.Product = value
			case "model":
				entry.Model = value
			case "device":
				entry.Device = value
			case "transport_id":
				entry.TransportID = value
			}
		}
		entries = append(entries, entry)
	}
	return DeviceList{DeviceList: entries}
}

// ListDevices returns a DeviceList containing data about all
// devices currently known to the adb server using a new HostConnection
func ListDevices() (DeviceList, error) {
	conn, err := NewHostConnectionSimple()
	if err != nil {
		return DeviceList{}, err
	}
	defer conn.Close()
	return conn.ListDevices()
}

// ListDevices returns a DeviceList containing data about all
// devices currently known to the adb server
func (conn *HostConnection) ListDevices() (DeviceList, error) {
	payload, err := conn.RequestBlock("host:devices-l")
	if err != nil {
		return DeviceList{}, fmt.Errorf("failed getting devicelist: %v", err)
	}
	return DeviceListfromBytes(payload), nil
}

// GetDevice returns the device with the given serial or, if serial is the
// empty string, the first usable device the adb server knows about.
func GetDevice(serial string) (DeviceEntry, error) {
	deviceList, err := ListDevices()
	if err != nil {
		return DeviceEntry{}, err
	}
	if serial == "" {
		for _, device := range deviceList.DeviceList {
			if device.IsUsable() {
				return device, nil
			}
		}
		return DeviceEntry{}, fmt.Errorf("no usable device found. Is a device connected and authorized?")
	}
	for _, device := range deviceList.DeviceList {
		if device.Serial == serial {
			return device, nil
		}
	}
	return DeviceEntry{}, fmt.Errorf("device '%s' not found. Is it connected and authorized?", serial)
}
