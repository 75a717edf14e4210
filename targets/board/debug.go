//go:build tinygo

package board

import (
	"machine"

	"els/core"
)

const DebugBaud = 115200

var debugUART *machine.UART

// InitDebugUART routes core debug output to uart. The timing ring is
// dumped through the same writer.
func InitDebugUART(uart *machine.UART, tx, rx machine.Pin) error {
	err := uart.Configure(machine.UARTConfig{
		BaudRate: DebugBaud,
		TX:       tx,
		RX:       rx,
	})
	if err != nil {
		return err
	}
	debugUART = uart
	core.SetDebugWriter(debugPrintln)
	core.SetDebugEnabled(true)
	core.DebugPrintln("[ELS] " + core.Version)
	return nil
}

func debugPrintln(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
