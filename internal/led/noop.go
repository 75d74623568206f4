package led

import "solstis/internal/kit"

// Disabled satisfies the illuminator contract on boxes without a strip
// (development machines, LED_ENABLED=false).
type Disabled struct{}

func (Disabled) Light([]kit.Item) error { return nil }
func (Disabled) Clear() error           { return nil }
func (Disabled) StartSpeakPulse()       {}
func (Disabled) StopSpeakPulse()        {}
