package accessibility_test

import (
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/axdroid/go-axdroid/adb/accessibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdbServer speaks just enough of the adb smart socket protocol to hand
// out shell streams: it confirms the transport and shell requests with OKAY
// and keeps the connection open so tests can feed setting values.
type fakeAdbServer struct {
	listener net.Listener

	mu      sync.Mutex
	streams []net.Conn
}

func startFakeAdbServer(t *testing.T) *fakeAdbServer {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Setenv("ADB_SERVER_SOCKET", "tcp://"+listener.Addr().String())
	server := &fakeAdbServer{listener: listener}
	go server.serve()
	t.Cleanup(server.close)
	return server
}

func (server *fakeAdbServer) serve() {
	for {
		conn, err := server.listener.Accept()
		if err != nil {
			return
		}
		go server.handle(conn)
	}
}

func (server *fakeAdbServer) handle(conn net.Conn) {
	// transport request followed by the shell request
	for i := 0; i < 2; i++ {
		if _, err := readAdbRequest(conn); err != nil {
			conn.Close()
			return
		}
		if _, err := conn.Write([]byte("OKAY")); err != nil {
			conn.Close()
			return
		}
	}
	server.mu.Lock()
	server.streams = append(server.streams, conn)
	server.mu.Unlock()
}

func readAdbRequest(conn net.Conn) (string, error) {
	lengthField := make([]byte, 4)
	if _, err := io.ReadFull(conn, lengthField); err != nil {
		return "", err
	}
	length, err := strconv.ParseUint(string(lengthField), 16, 32)
	if err != nil {
		return "", err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return "", err
	}
	return string(payload), nil
}

func (server *fakeAdbServer) streamCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.streams)
}

func (server *fakeAdbServer) waitForStream(t *testing.T, index int) net.Conn {
	require.Eventually(t, func() bool { return server.streamCount() > index },
		time.Second, 10*time.Millisecond, "shell stream %d never opened", index)
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.streams[index]
}

func (server *fakeAdbServer) close() {
	server.listener.Close()
	server.mu.Lock()
	defer server.mu.Unlock()
	for _, conn := range server.streams {
		conn.Close()
	}
}

func writeSettingValue(t *testing.T, conn net.Conn, value string) {
	_, err := conn.Write([]byte(value + "\n"))
	require.NoError(t, err)
}

func TestMonitorFiresOncePerChangedValue(t *testing.T) {
	server := startFakeAdbServer(t)
	device := adb.DeviceEntry{Serial: "emulator-5554", State: "device"}
	monitor := accessibility.NewShellSettingsMonitor(device, time.Second)

	var fires atomic.Int32
	require.NoError(t, monitor.Arm(func() { fires.Add(1) }))
	defer monitor.Disarm()
	stream := server.waitForStream(t, 0)

	writeSettingValue(t, stream, "null") // baseline, no event
	writeSettingValue(t, stream, "com.example/.TalkService")
	require.Eventually(t, func() bool { return fires.Load() == 1 }, time.Second, 10*time.Millisecond)

	writeSettingValue(t, stream, "com.example/.TalkService") // unchanged, no event
	writeSettingValue(t, stream, "null")
	require.Eventually(t, func() bool { return fires.Load() == 2 }, time.Second, 10*time.Millisecond)
}

func TestMonitorDisarmTerminatesWatcher(t *testing.T) {
	server := startFakeAdbServer(t)
	device := adb.DeviceEntry{Serial: "emulator-5554", State: "device"}
	monitor := accessibility.NewShellSettingsMonitor(device, time.Second)

	var firstFires atomic.Int32
	require.NoError(t, monitor.Arm(func() { firstFires.Add(1) }))
	first := server.waitForStream(t, 0)
	writeSettingValue(t, first, "null")
	writeSettingValue(t, first, "com.example/.TalkService")
	require.Eventually(t, func() bool { return firstFires.Load() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, monitor.Disarm())

	var secondFires atomic.Int32
	require.NoError(t, monitor.Arm(func() { secondFires.Add(1) }))
	defer monitor.Disarm()
	second := server.waitForStream(t, 1)

	writeSettingValue(t, second, "null")
	writeSettingValue(t, second, "com.other/.RemoteService")
	require.Eventually(t, func() bool { return secondFires.Load() == 1 }, time.Second, 10*time.Millisecond)

	// the first watcher is gone for good: it neither reconnects a third
	// stream nor fires again, and the one change fired exactly once
	assert.Never(t, func() bool {
		return server.streamCount() > 2 || firstFires.Load() > 1 || secondFires.Load() > 1
	}, 1200*time.Millisecond, 100*time.Millisecond)
}
