package adb

import (
	"fmt"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// WireCodec is a codec for the adb server's "smart socket" protocol. Requests
// and response blocks are ASCII payloads prefixed with the payload length as
// 4 hexadecimal digits. Responses start with a 4 byte OKAY or FAIL status,
// a FAIL status is followed by a length prefixed error message.
type WireCodec struct{}

// NewWireCodec creates a codec for the adb smart socket protocol
func NewWireCodec() WireCodec {
	return WireCodec{}
}

// Encode converts a request string to a length prefixed adb message.
func (wireCodec WireCodec) Encode(request string) ([]byte, error) {
	if len(request) > 0xffff {
		return nil, fmt.Errorf("adb request too long: %d bytes", len(request))
	}
	log.Tracef("adb send '%s'", request)
	return []byte(fmt.Sprintf("%04x%s", len(request), request)), nil
}

// DecodeStatus reads the 4 byte status of the last request. It returns nil
// for OKAY and the server supplied error message for FAIL.
func (wireCodec WireCodec) DecodeStatus(r io.Reader) error {
	status := make([]byte, 4)
	_, err := io.ReadFull(r, status)
	if err != nil {
		return fmt.Errorf("failed reading adb status: %v", err)
	}
	switch string(status) {
	case "OKAY":
		return nil
	case "FAIL":
		message, err := wireCodec.DecodeBlock(r)
		if err != nil {
			return fmt.Errorf("adb request failed, error message unreadable: %v", err)
		}
		return fmt.Errorf("adb request failed: %s", message)
	default:
		return fmt.Errorf("invalid adb status: %x", status)
	}
}

// DecodeBlock reads one length prefixed payload from the provided reader.
func (wireCodec WireCodec) DecodeBlock(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("Reader was nil")
	}
	lengthField := make([]byte, 4)
	_, err := io.ReadFull(r, lengthField)
	if err != nil {
		return nil, err
	}
	length, err := strconv.ParseUint(string(lengthField), 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid adb length field '%s': %v", lengthField, err)
	}
	payload := make([]byte, length)
	_, err = io.ReadFull(r, payload)
	if err != nil {
		return nil, err
	}
	log.Tracef("adb recv %d bytes", length)
	return payload, nil
}
