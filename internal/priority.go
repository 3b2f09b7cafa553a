package internal

import (
	"fmt"
	"time"
)

type PriorityLevel int

const (
	NoPriority PriorityLevel = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

const (
	// times out immediately
	ImmediateTimeout = -1 * time.Millisecond
	// eventually times out
	UserBlockingTimeout = 250 * time.Millisecond
	NormalTimeout       = 5000 * time.Millisecond
	LowTimeout          = 10000 * time.Millisecond
	// never times out (max 31 bit integer of milliseconds, ~12 days)
	IdleTimeout = 1073741823 * time.Millisecond
)

func (p PriorityLevel) String() string {
	switch p {
	case NoPriority:
		return "none"
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Valid reports whether p is one of the schedulable levels.
func (p PriorityLevel) Valid() bool {
	return p >= ImmediatePriority && p <= IdlePriority
}

// Timeout returns how long a task of this level may wait before it is
// considered expired. Unknown levels use the normal timeout.
func (p PriorityLevel) Timeout() time.Duration {
	switch p {
	case ImmediatePriority:
		return ImmediateTimeout
	case UserBlockingPriority:
		return UserBlockingTimeout
	case LowPriority:
		return LowTimeout
	case IdlePriority:
		return IdleTimeout
	default:
		return NormalTimeout
	}
}

func (p PriorityLevel) orNormal() PriorityLevel {
	if p.Valid() {
		return p
	}
	return NormalPriority
}
