package accessibility

import (
	"bufio"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/axdroid/go-axdroid/adb"
	"github.com/cenkalti/backoff"
	log "github.com/sirupsen/logrus"
)

// ChangeMonitor is the underlying OS change-notification primitive consumed by
// the Multiplexer. Arm attaches it and makes it invoke onChange whenever the
// enabled accessibility service set changes, Disarm detaches it. A monitor is
// exclusively owned by one Multiplexer.
type ChangeMonitor interface {
	Arm(onChange func()) error
	Disarm() error
}

// ShellSettingsMonitor watches the enabled_accessibility_services secure
// setting through a persistent shell stream that reports the value
// periodically. Changes are detected host side by comparing consecutive
// values. Died streams are reopened with exponential backoff until Disarm.
type ShellSettingsMonitor struct {
	device   adb.DeviceEntry
	interval time.Duration

	mu     sync.Mutex
	armed  bool
	stream *adb.ShellStream
	// stop belongs to the current arm, closing it kills that arm's watcher
	stop chan struct{}
}

// NewShellSettingsMonitor creates a monitor for the given device. interval is
// the on-device poll interval, it is rounded up to full seconds because it is
// passed to sleep(1). Zero means 1 second.
func NewShellSettingsMonitor(device adb.DeviceEntry, interval time.Duration) *ShellSettingsMonitor {
	if interval < time.Second {
		interval = time.Second
	}
	return &ShellSettingsMonitor{device: device, interval: interval}
}

// Arm starts the shell stream and the reader goroutine. Arming an armed
// monitor is a no-op.
func (monitor *ShellSettingsMonitor) Arm(onChange func()) error {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if monitor.armed {
		return nil
	}
	stream, err := monitor.openStream()
	if err != nil {
		return fmt.Errorf("failed arming accessibility monitor on %s: %v", monitor.device.Serial, err)
	}
	stop := make(chan struct{})
	monitor.armed = true
	monitor.stream = stream
	monitor.stop = stop
	go monitor.watch(stream, onChange, stop)
	return nil
}

// Disarm closes the stop channel and the shell stream, which terminates the
// watcher goroutine of this arm for good: a disarmed watcher never reconnects,
// a later Arm starts a fresh one. Disarming a disarmed monitor is a no-op.
func (monitor *ShellSettingsMonitor) Disarm() error {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if !monitor.armed {
		return nil
	}
	monitor.armed = false
	close(monitor.stop)
	monitor.stop = nil
	err := monitor.stream.Close()
	monitor.stream = nil
	return err
}

func (monitor *ShellSettingsMonitor) openStream() (*adb.ShellStream, error) {
	seconds := int(monitor.interval / time.Second)
	command := fmt.Sprintf("while true; do settings get secure %s; sleep %d; done", enabledServicesSetting, seconds)
	return adb.StartShellStream(monitor.device, command)
}

// watch reads setting values from the stream. The first value is the baseline,
// every later deviation fires onChange exactly once. stop is the identity of
// one arm: the shared armed flag may already belong to a later Arm, so the
// watcher only keeps running while its own stop channel is open and
// monitor.stop still points at it.
func (monitor *ShellSettingsMonitor) watch(stream *adb.ShellStream, onChange func(), stop chan struct{}) {
	last := ""
	baselined := false
	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 0
	for {
		scanner := bufio.NewScanner(stream.Reader())
		for scanner.Scan() {
			select {
			case <-stop:
				return
			default:
			}
			value := strings.TrimSpace(scanner.Text())
			if !baselined {
				last = value
				baselined = true
				continue
			}
			if value != last {
				last = value
				onChange()
			}
			retryPolicy.Reset()
		}
		stream.Close()

		// the stream died, reconnect unless this arm was disarmed
		for {
			select {
			case <-stop:
				return
			default:
			}
			wait := retryPolicy.NextBackOff()
			log.Warnf("accessibility monitor stream on %s died, reconnecting in %v", monitor.device.Serial, wait)
			select {
			case <-stop:
				return
			case <-time.After(wait):
			}
			newStream, err := monitor.openStream()
			if err != nil {
				log.Warnf("accessibility monitor reconnect on %s failed: %v", monitor.device.Serial, err)
				continue
			}
			monitor.mu.Lock()
			if monitor.stop != stop {
				monitor.mu.Unlock()
				newStream.Close()
				return
			}
			monitor.stream = newStream
			monitor.mu.Unlock()
			stream = newStream
			break
		}
	}
}
