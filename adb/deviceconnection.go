package adb

import (
	"io"
	"net"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DeviceConnectionInterface contains a physical network connection to the adb server socket.
type DeviceConnectionInterface interface {
	Close() error
	Send(message []byte) error
	Reader() io.Reader
	Writer() io.Writer
	Conn() net.Conn
	io.ReadWriteCloser
}

// DeviceConnection wraps the net.Conn to the adb server and implements
// DeviceConnectionInterface.
type DeviceConnection struct {
	c net.Conn
}

// NewDeviceConnection creates a new DeviceConnection connected to the given socket address.
// Addresses use the scheme://address format, f.ex. tcp://127.0.0.1:5037 or
// unix:///var/run/adb.sock
func NewDeviceConnection(socketToConnectTo string) (*DeviceConnection, error) {
	conn := &DeviceConnection{}
	return conn, conn.connectToSocketAddress(socketToConnectTo)
}

// NewDeviceConnectionWithConn creates a DeviceConnection with an already connected network conn.
func NewDeviceConnectionWithConn(conn net.Conn) *DeviceConnection {
	return &DeviceConnection{c: conn}
}

func (conn *DeviceConnection) connectToSocketAddress(socketAddress string) error {
	if strings.HasPrefix(socketAddress, "/var") {
		socketAddress = "unix://" + socketAddress
	}
	network, address := GetSocketTypeAndAddress(socketAddress)
	c, err := net.Dial(network, address)
	if err != nil {
		return err
	}
	log.Tracef("Opening connection: %v", &c)
	conn.c = c
	return nil
}

// Read reads incoming data from the connection to the adb server
func (conn *DeviceConnection) Read(p []byte) (n int, err error) {
	return conn.c.Read(p)
}

// Write writes data on the connection to the adb server
func (conn *DeviceConnection) Write(p []byte) (n int, err error) {
	return conn.c.Write(p)
}

// Close closes the network connection
func (conn *DeviceConnection) Close() error {
	log.Tracef("Closing connection: %v", &conn.c)
	return conn.c.Close()
}

// Send sends a message
func (conn *DeviceConnection) Send(bytes []byte) error {
	n, err := conn.c.Write(bytes)
	if n < len(bytes) {
		log.Errorf("DeviceConnection failed writing %d bytes, only %d sent", len(bytes), n)
	}
	if err != nil {
		log.Errorf("Failed sending: %s", err)
		conn.Close()
		return err
	}
	return nil
}

// Reader exposes the underlying net.Conn as io.Reader
func (conn *DeviceConnection) Reader() io.Reader {
	return conn.c
}

// Writer exposes the underlying net.Conn as io.Writer
func (conn *DeviceConnection) Writer() io.Writer {
	return conn.c
}

// Conn exposes the underlying net.Conn
func (conn *DeviceConnection) Conn() net.Conn {
	return conn.c
}
