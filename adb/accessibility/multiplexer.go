package accessibility

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// ServicesCallback receives the current enabled service set after every
// change. All subscribers get the same snapshot slice, treat it as read-only.
type ServicesCallback func(services []ServiceInfo)

type subscriber struct {
	id       uuid.UUID
	callback ServicesCallback
	removed  bool
}

// Subscription is the opaque token returned by AddListener. Its only purpose
// is to be removed again.
type Subscription struct {
	id          uuid.UUID
	multiplexer *Multiplexer
	subscriber  *subscriber
}

// ID identifies this subscription, f.ex. in logs.
func (subscription *Subscription) ID() uuid.UUID {
	if subscription == nil {
		return uuid.Nil
	}
	return subscription.id
}

// Remove unregisters the callback and disarms the underlying monitor if this
// was the last subscription. Removing twice, or removing a nil Subscription,
// is a no-op. Remove always succeeds from the caller's point of view, a
// failing monitor disarm is logged only.
func (subscription *Subscription) Remove() {
	if subscription == nil {
		return
	}
	subscription.multiplexer.remove(subscription.subscriber)
}

// Multiplexer turns the single ChangeMonitor of a device into any number of
// independent subscriptions. It owns the monitor exclusively: the monitor is
// armed when the subscriber count transitions 0 to 1 and disarmed on the way
// back. One Multiplexer exists per observed device, construct it once and
// inject it into consumers.
type Multiplexer struct {
	bridge  Bridge
	monitor ChangeMonitor

	mu          sync.Mutex
	subscribers []*subscriber
	armed       bool
	// inflight serializes arm/disarm transitions. While an arm or disarm
	// call is running, every other transition waits for this channel and
	// re-checks the state afterwards, so back-to-back AddListener calls
	// trigger exactly one arm.
	inflight chan struct{}

	unsupported bool
}

// NewMultiplexer creates a Multiplexer fanning out change events of the given
// monitor, with snapshots re-queried from the given bridge.
func NewMultiplexer(bridge Bridge, monitor ChangeMonitor) *Multiplexer {
	return &Multiplexer{bridge: bridge, monitor: monitor}
}

// NewUnavailableMultiplexer creates a Multiplexer for hosts without a device.
// Every operation succeeds with its empty identity value and AddListener
// returns a nil Subscription.
func NewUnavailableMultiplexer() *Multiplexer {
	return &Multiplexer{bridge: NewUnavailable(), unsupported: true}
}

// AddListener registers a callback for enabled-service changes. If the
// multiplexer is idle, the monitor is armed first; when arming fails the
// subscription is not created and the error is returned. On unsupported
// hosts AddListener returns nil, nil.
//
// The subscriber is appended in the same critical section that decides about
// arming. While an arm or disarm transition is in flight, AddListener waits
// for it and re-checks, so a registration issued during the last subscriber's
// disarm lands after the disarm settled and re-arms the monitor instead of
// attaching to a dead one.
func (multiplexer *Multiplexer) AddListener(callback ServicesCallback) (*Subscription, error) {
	if multiplexer.unsupported {
		return nil, nil
	}
	sub := &subscriber{id: uuid.New(), callback: callback}
	for {
		multiplexer.mu.Lock()
		if multiplexer.inflight != nil {
			wait := multiplexer.inflight
			multiplexer.mu.Unlock()
			<-wait
			continue
		}
		if multiplexer.armed {
			multiplexer.subscribers = append(multiplexer.subscribers, sub)
			multiplexer.mu.Unlock()
			break
		}
		done := make(chan struct{})
		multiplexer.inflight = done
		multiplexer.mu.Unlock()

		err := multiplexer.monitor.Arm(multiplexer.onChange)

		multiplexer.mu.Lock()
		if err == nil {
			multiplexer.armed = true
			multiplexer.subscribers = append(multiplexer.subscribers, sub)
		}
		multiplexer.inflight = nil
		multiplexer.mu.Unlock()
		close(done)
		if err != nil {
			return nil, err
		}
		break
	}
	log.Debugf("accessibility listener %s registered", sub.id)
	return &Subscription{id: sub.id, multiplexer: multiplexer, subscriber: sub}, nil
}

// StartListening arms the monitor without registering a callback, so
// IsListening reports true. Calling it while armed is a no-op.
func (multiplexer *Multiplexer) StartListening() error {
	if multiplexer.unsupported {
		return nil
	}
	return multiplexer.ensureArmed()
}

// StopListening clears all subscriptions and disarms the monitor regardless of
// the subscriber count. Disarm failures are logged, never returned.
func (multiplexer *Multiplexer) StopListening() {
	multiplexer.mu.Lock()
	for _, sub := range multiplexer.subscribers {
		sub.removed = true
	}
	multiplexer.subscribers = nil
	multiplexer.mu.Unlock()
	multiplexer.disarmIfIdle()
}

// Close is the process-teardown cleanup, equivalent to StopListening.
func (multiplexer *Multiplexer) Close() {
	multiplexer.StopListening()
}

// IsListening reports whether the underlying monitor is armed.
func (multiplexer *Multiplexer) IsListening() bool {
	multiplexer.mu.Lock()
	defer multiplexer.mu.Unlock()
	return multiplexer.armed
}

// ListenerCount returns the number of live subscriptions.
func (multiplexer *Multiplexer) ListenerCount() int {
	multiplexer.mu.Lock()
	defer multiplexer.mu.Unlock()
	return len(multiplexer.subscribers)
}

// ensureArmed arms the monitor if it is not armed yet. Only one arm or disarm
// call is in flight at any time, concurrent callers wait for it and re-check.
// The armed flag only counts after the wait: during a running disarm it still
// reads true even though the monitor is about to be detached.
func (multiplexer *Multiplexer) ensureArmed() error {
	for {
		multiplexer.mu.Lock()
		if multiplexer.inflight != nil {
			wait := multiplexer.inflight
			multiplexer.mu.Unlock()
			<-wait
			continue
		}
		if multiplexer.armed {
			multiplexer.mu.Unlock()
			return nil
		}
		done := make(chan struct{})
		multiplexer.inflight = done
		multiplexer.mu.Unlock()

		err := multiplexer.monitor.Arm(multiplexer.onChange)

		multiplexer.mu.Lock()
		if err == nil {
			multiplexer.armed = true
		}
		multiplexer.inflight = nil
		multiplexer.mu.Unlock()
		close(done)
		return err
	}
}

// disarmIfIdle disarms the monitor when it is armed and no subscribers remain.
// The condition is re-checked after waiting for an in-flight transition, so a
// subscription added in the meantime keeps the monitor armed.
func (multiplexer *Multiplexer) disarmIfIdle() {
	if multiplexer.unsupported {
		return
	}
	for {
		multiplexer.mu.Lock()
		if multiplexer.inflight != nil {
			wait := multiplexer.inflight
			multiplexer.mu.Unlock()
			<-wait
			continue
		}
		if !multiplexer.armed || len(multiplexer.subscribers) > 0 {
			multiplexer.mu.Unlock()
			return
		}
		done := make(chan struct{})
		multiplexer.inflight = done
		multiplexer.mu.Unlock()

		err := multiplexer.monitor.Disarm()
		if err != nil {
			log.Warnf("failed disarming accessibility monitor: %v", err)
		}

		multiplexer.mu.Lock()
		// even after a failed disarm the multiplexer reports idle,
		// callers removing their subscription always succeed
		multiplexer.armed = false
		multiplexer.inflight = nil
		multiplexer.mu.Unlock()
		close(done)
		return
	}
}

// remove unregisters one subscriber and disarms the monitor when it was the
// last one. Unknown or already removed subscribers are ignored.
func (multiplexer *Multiplexer) remove(sub *subscriber) {
	multiplexer.mu.Lock()
	if sub == nil || sub.removed {
		multiplexer.mu.Unlock()
		return
	}
	sub.removed = true
	if index := slices.Index(multiplexer.subscribers, sub); index >= 0 {
		multiplexer.subscribers = slices.Delete(multiplexer.subscribers, index, index+1)
	}
	multiplexer.mu.Unlock()
	log.Debugf("accessibility listener %s removed", sub.id)
	multiplexer.disarmIfIdle()
}

// onChange is invoked by the monitor. It re-queries the current enabled
// services once and hands the same snapshot to every subscriber in
// registration order. A panicking callback does not stop the fan-out.
func (multiplexer *Multiplexer) onChange() {
	services, err := multiplexer.bridge.EnabledServices()
	if err != nil {
		log.Errorf("failed querying enabled services after change event: %v", err)
		return
	}
	multiplexer.mu.Lock()
	subs := slices.Clone(multiplexer.subscribers)
	multiplexer.mu.Unlock()
	for _, sub := range subs {
		dispatch(sub, services)
	}
}

func dispatch(sub *subscriber, services []ServiceInfo) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("accessibility listener %s panicked: %v", sub.id, r)
		}
	}()
	sub.callback(services)
}
