package adb

import (
	"fmt"
	"io"
	"strconv"
)

// HostConnection can send requests to the adb server to list devices, pick a
// transport to one of them and start services on the device. Requests follow
// the smart socket protocol, see WireCodec. A HostConnection that was switched
// to a device transport only talks to that device afterwards and cannot be
// reused for host services.
type HostConnection struct {
	deviceConn DeviceConnectionInterface
	codec      WireCodec
}

// NewHostConnection creates a new HostConnection from an already initialized DeviceConnectionInterface
func NewHostConnection(deviceConn DeviceConnectionInterface) *HostConnection {
	return &HostConnection{deviceConn: deviceConn, codec: NewWireCodec()}
}

// NewHostConnectionSimple creates a new HostConnection with a connection to the
// default adb server socket.
func NewHostConnectionSimple() (*HostConnection, error) {
	deviceConn, err := NewDeviceConnection(GetAdbSocket())
	if err != nil {
		return nil, err
	}
	return NewHostConnection(deviceConn), nil
}

// ReleaseDeviceConnection dereferences this HostConnection from the underlying DeviceConnection
// and returns the DeviceConnection for later use. This HostConnection cannot be used
// after calling this.
func (conn *HostConnection) ReleaseDeviceConnection() DeviceConnectionInterface {
	deviceConn := conn.deviceConn
	conn.deviceConn = nil
	return deviceConn
}

// Close calls close on the underlying DeviceConnection
func (conn *HostConnection) Close() error {
	return conn.deviceConn.Close()
}

// Reader exposes the underlying connection, f.ex. to read raw service output after
// a successful shell request.
func (conn *HostConnection) Reader() io.Reader {
	return conn.deviceConn.Reader()
}

// Request sends the given service request and checks the status response.
func (conn *HostConnection) Request(service string) error {
	msg, err := conn.codec.Encode(service)
	if err != nil {
		return err
	}
	err = conn.deviceConn.Send(msg)
	if err != nil {
		return fmt.Errorf("failed sending request '%s' to adb: %v", service, err)
	}
	return conn.codec.DecodeStatus(conn.deviceConn.Reader())
}

// RequestBlock sends the given host service request and reads one length
// prefixed response payload.
func (conn *HostConnection) RequestBlock(service string) ([]byte, error) {
	err := conn.Request(service)
	if err != nil {
		return nil, err
	}
	return conn.codec.DecodeBlock(conn.deviceConn.Reader())
}

// ReadBlock reads one more length prefixed payload, used by streaming host
// services like host:track-devices.
func (conn *HostConnection) ReadBlock() ([]byte, error) {
	return conn.codec.DecodeBlock(conn.deviceConn.Reader())
}

// ServerVersion asks the adb server for its internal protocol version.
func (conn *HostConnection) ServerVersion() (int, error) {
	payload, err := conn.RequestBlock("host:version")
	if err != nil {
		return 0, fmt.Errorf("failed getting adb server version: %v", err)
	}
	version, err := strconv.ParseUint(string(payload), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid adb server version '%s': %v", payload, err)
	}
	return int(version), nil
}

// Transport switches this connection to the device with the given serial.
// All subsequent requests are services executed on the device itself.
func (conn *HostConnection) Transport(device DeviceEntry) error {
	err := conn.Request("host:transport:" + device.Serial)
	if err != nil {
		return fmt.Errorf("failed switching transport to device %s: %v", device.Serial, err)
	}
	return nil
}
