package ui

// Mode is the operating mode selected with the mode dial
type Mode uint8

const (
	ServoOff Mode = iota
	Feed
	ThreadMetric
	ThreadImperial
)

// modes lists every Mode in dial order
var modes = [...]Mode{ServoOff, Feed, ThreadMetric, ThreadImperial}

// Add steps the mode by n detents, stopping at the first and last mode
func (m Mode) Add(n int) Mode {
	return modes[clamp(int(m)+n, 0, len(modes)-1)]
}

// IsThreading reports whether pitch changes need the spindle stopped
func (m Mode) IsThreading() bool {
	return m == ThreadMetric || m == ThreadImperial
}

// Drives reports whether the motor is enabled in this mode
func (m Mode) Drives() bool {
	return m != ServoOff
}

func (m Mode) String() string {
	switch m {
	case ServoOff:
		return "servo-off"
	case Feed:
		return "feed"
	case ThreadMetric:
		return "thread-metric"
	case ThreadImperial:
		return "thread-imperial"
	default:
		return "unknown"
	}
}

// DebugPage is one of the diagnostic screens shown in debug mode
type DebugPage uint8

const (
	PageHelp DebugPage = iota
	PageStatus
	PageUIControls
	PageMotor
	PageSpindle
	PageControl
	PageTime
)

var debugPages = [...]DebugPage{
	PageHelp, PageStatus, PageUIControls, PageMotor, PageSpindle, PageControl, PageTime,
}

// Add steps the page by n detents, stopping at the first and last page
func (p DebugPage) Add(n int) DebugPage {
	return debugPages[clamp(int(p)+n, 0, len(debugPages)-1)]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
