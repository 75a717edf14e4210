package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	// Build string from right to left
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// FormatOverrun builds the debug line for a slow loop iteration
func FormatOverrun(nowMs int64, elapsedMs uint32) string {
	return "[LOOP] overrun at ms=" + itoa(int(nowMs)) + " elapsed=" + utoa(elapsedMs)
}
