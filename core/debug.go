package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a control loop event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Clock     uint32 // Millisecond clock at event (low 32 bits)
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtUIUpdate   = 1 // UI state machine ran; v1=mode, v2=feed rate
	EvtModeChange = 2 // Operating mode changed; v1=old, v2=new
	EvtEnable     = 3 // Motor enable line driven; v1=level
	EvtDirection  = 4 // Motor direction line driven; v1=level
	EvtOverrun    = 5 // Loop iteration slower than the UI period; v1=elapsed ms
	EvtPulseBurst = 6 // Large pulse burst; v1=pulses, v2=direction
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem

	// Bursts at or above this size are recorded as EvtPulseBurst
	PulseBurstRecordThreshold = 64
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events

	// totalPulses counts every step pulse issued since boot
	totalPulses uint32
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures a timing event in the ring buffer
func RecordTiming(eventType uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// AddPulseCount adds n to the boot-time pulse total
func AddPulseCount(n uint32) {
	totalPulses += n
}

// GetTotalPulseCount returns the pulses issued since boot
func GetTotalPulseCount() uint32 {
	return totalPulses
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		events = append(events, evt)
	}
	return events
}

// eventName returns the dump label for an event type
func eventName(eventType uint8) string {
	switch eventType {
	case EvtUIUpdate:
		return "UI_UPDATE"
	case EvtModeChange:
		return "MODE"
	case EvtEnable:
		return "ENABLE"
	case EvtDirection:
		return "DIR"
	case EvtOverrun:
		return "OVERRUN!"
	case EvtPulseBurst:
		return "BURST"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error)
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	debugPrintln("[TIMING] Total pulses issued: " + utoa(totalPulses))

	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + eventName(evt.EventType) +
			" ms=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer and the pulse total
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
	totalPulses = 0
}
