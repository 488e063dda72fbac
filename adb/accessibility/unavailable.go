package accessibility

// unavailableBridge is the Bridge used when no device backs the registry,
// f.ex. when a caller runs on a host without an adb server. Every query
// returns its empty identity value and never fails, matching the contract
// that unsupported platforms degrade silently.
type unavailableBridge struct{}

// NewUnavailable creates a Bridge that reports an empty registry and never errors.
func NewUnavailable() Bridge {
	return unavailableBridge{}
}

func (unavailableBridge) EnabledServices() ([]ServiceInfo, error) {
	return []ServiceInfo{}, nil
}

func (unavailableBridge) HasEnabledServices() (bool, error) {
	return false, nil
}

func (unavailableBridge) OpenAccessibilitySettings() {}
