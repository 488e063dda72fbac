package adb

// TrackDevices sends the track-devices command to the adb server which causes
// this connection to stay open indefinitely and emit a fresh device list
// whenever devices are plugged, unplugged or change state. Use the returned
// function to read one update at a time. The text format of track-devices
// only carries serial and state.
func (conn *HostConnection) TrackDevices() (func() (DeviceList, error), error) {
	err := conn.Request("host:track-devices")
	if err != nil {
		return nil, err
	}
	return func() (DeviceList, error) {
		payload, err := conn.ReadBlock()
		if err != nil {
			return DeviceList{}, err
		}
		return DeviceListfromBytes(payload), nil
	}, nil
}
