package adb

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lunixbochs/struc"
)

// syncMessage is the binary header of the sync: service. Every sync message
// is a 4 byte request id followed by a little endian length or flag field.
type syncMessage struct {
	ID     [4]byte
	Length uint32 `struc:"uint32,little"`
}

func newSyncMessage(id string, length uint32) syncMessage {
	var msg syncMessage
	copy(msg.ID[:], id)
	msg.Length = length
	return msg
}

// PullFile downloads a file from the device through the sync: service and
// returns its contents. Files readable by the shell user can be pulled, which
// includes installed apk files under /data/app.
func PullFile(device DeviceEntry, remotePath string) ([]byte, error) {
	conn, err := NewHostConnectionSimple()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	err = conn.Transport(device)
	if err != nil {
		return nil, err
	}
	err = conn.Request("sync:")
	if err != nil {
		return nil, fmt.Errorf("failed starting sync service on %s: %v", device.Serial, err)
	}
	deviceConn := conn.ReleaseDeviceConnection()
	defer deviceConn.Close()

	recv := newSyncMessage("RECV", uint32(len(remotePath)))
	buf := bytes.Buffer{}
	err = struc.Pack(&buf, &recv)
	if err != nil {
		return nil, err
	}
	buf.WriteString(remotePath)
	err = deviceConn.Send(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return readSyncChunks(deviceConn.Reader(), remotePath)
}

func readSyncChunks(reader io.Reader, remotePath string) ([]byte, error) {
	var content bytes.Buffer
	for {
		var header syncMessage
		err := struc.Unpack(reader, &header)
		if err != nil {
			return nil, fmt.Errorf("failed reading sync header for %s: %v", remotePath, err)
		}
		switch string(header.ID[:]) {
		case "DATA":
			_, err = io.CopyN(&content, reader, int64(header.Length))
			if err != nil {
				return nil, fmt.Errorf("failed reading sync chunk for %s: %v", remotePath, err)
			}
		case "DONE":
			return content.Bytes(), nil
		case "FAIL":
			message := make([]byte, header.Length)
			_, err = io.ReadFull(reader, message)
			if err != nil {
				return nil, fmt.Errorf("sync pull of %s failed, error message unreadable: %v", remotePath, err)
			}
			return nil, fmt.Errorf("sync pull of %s failed: %s", remotePath, message)
		default:
			return nil, fmt.Errorf("unknown sync response id %x for %s", header.ID, remotePath)
		}
	}
}
