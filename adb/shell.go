package adb

import (
	"fmt"
	"io"
	"strings"
)

// RunShellCommand executes a command through the device's shell: service and
// returns its complete output. The service closes the stream on command exit,
// exit codes are not transported by the legacy shell protocol.
func RunShellCommand(device DeviceEntry, command string) (string, error) {
	conn, err := NewHostConnectionSimple()
	if err != nil {
		return "", err
	}
	defer conn.Close()
	err = conn.Transport(device)
	if err != nil {
		return "", err
	}
	err = conn.Request("shell:" + command)
	if err != nil {
		return "", fmt.Errorf("failed running '%s' on %s: %v", command, device.Serial, err)
	}
	output, err := io.ReadAll(conn.Reader())
	if err != nil {
		return "", fmt.Errorf("failed reading output of '%s' on %s: %v", command, device.Serial, err)
	}
	return string(output), nil
}

// RunShellCommandTrimmed is RunShellCommand with surrounding whitespace removed,
// handy for single value queries like settings get.
func RunShellCommandTrimmed(device DeviceEntry, command string) (string, error) {
	output, err := RunShellCommand(device, command)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// ShellStream is a long running shell: service invocation. Reader streams the
// command output until the command exits or Close is called.
type ShellStream struct {
	conn *HostConnection
}

// Reader exposes the raw command output.
func (stream *ShellStream) Reader() io.Reader {
	return stream.conn.Reader()
}

// Close terminates the stream, which kills the remote command.
func (stream *ShellStream) Close() error {
	return stream.conn.Close()
}

// StartShellStream starts a long running command through the device's shell:
// service and leaves the connection open so the output can be consumed as it
// is produced, the way logcat or watch loops are used.
func StartShellStream(device DeviceEntry, command string) (*ShellStream, error) {
	conn, err := NewHostConnectionSimple()
	if err != nil {
		return nil, err
	}
	err = conn.Transport(device)
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = conn.Request("shell:" + command)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed starting '%s' on %s: %v", command, device.Serial, err)
	}
	return &ShellStream{conn: conn}, nil
}
