package adb

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/grandcat/zeroconf"
	log "github.com/sirupsen/logrus"
)

// adbMdnsServices are the service types Android advertises for adb over wifi.
// _adb._tcp is the classic tcpip mode, _adb-tls-connect._tcp is Android 11+
// wireless debugging.
var adbMdnsServices = []string{"_adb-tls-connect._tcp", "_adb._tcp"}

// WirelessDevice is an adb endpoint found on the local network. Connect to it
// with `adb connect address:port` or a direct host:connect request, afterwards
// it shows up in ListDevices like a cable connected device.
type WirelessDevice struct {
	InstanceName string
	Addresses    []string
	Port         int
}

// DiscoverWirelessDevices browses the local network via mDNS for devices with
// adb over wifi enabled. It blocks until ctx is done and returns everything
// found until then. Each service type gets its own resolver because a browse
// owns its entries channel and closes it on ctx done.
func DiscoverWirelessDevices(ctx context.Context) ([]WirelessDevice, error) {
	var mu sync.Mutex
	devices := make([]WirelessDevice, 0)
	var wg sync.WaitGroup
	for _, service := range adbMdnsServices {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("DiscoverWirelessDevices: failed to initialize resolver: %v", err)
		}
		entries := make(chan *zeroconf.ServiceEntry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entries {
				if entry == nil {
					continue
				}
				device := WirelessDevice{
					InstanceName: entry.ServiceInstanceName(),
					Port:         entry.Port,
				}
				for _, ip4 := range entry.AddrIPv4 {
					device.Addresses = append(device.Addresses, ip4.String())
				}
				for _, ip6 := range entry.AddrIPv6 {
					device.Addresses = append(device.Addresses, ip6.String())
				}
				log.WithField("instance", device.InstanceName).WithField("port", device.Port).Debug("found wireless adb endpoint")
				mu.Lock()
				devices = append(devices, device)
				mu.Unlock()
			}
		}()
		err = resolver.Browse(ctx, service, "local.", entries)
		if err != nil {
			log.WithField("service", service).WithField("err", err).Debug("failed browsing for service")
			close(entries)
		}
	}
	wg.Wait()
	return devices, nil
}

// Connect asks the adb server to connect to a wireless device. The serial of
// the connected device will be address:port.
func Connect(address string, port int) error {
	conn, err := NewHostConnectionSimple()
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.RequestBlock(fmt.Sprintf("host:connect:%s", net.JoinHostPort(address, fmt.Sprintf("%d", port))))
	return err
}
