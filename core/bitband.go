package core

// Cortex-M3/M4 bit-band regions for the peripheral space
const (
	PeripheralBase = 0x40000000
	BitBandBase    = 0x42000000
)

// BitBandAlias returns the alias word address for one bit of a peripheral register.
// Writing 1 to the alias writes that bit alone, with no read-modify-write.
func BitBandAlias(regAddr uintptr, bit uint8) uintptr {
	return BitBandBase + (regAddr-PeripheralBase)*32 + 4*uintptr(bit)
}

// BitBandBSRR returns the alias addresses that set and reset pin through a
// GPIO BSRR register: bits 0-15 set, bits 16-31 reset.
func BitBandBSRR(bsrrAddr uintptr, pin uint8) (setAddr, resetAddr uintptr) {
	return BitBandAlias(bsrrAddr, pin), BitBandAlias(bsrrAddr, pin+16)
}

// STM32F4 GPIO ports sit on AHB1, one every GPIOPortStride bytes from GPIOA
const (
	GPIOPortBase   = 0x40020000
	GPIOPortStride = 0x400
	GPIOBSRROffset = 0x18
)

// PinBSRR returns the BSRR address of the port owning pin and the pin's bit
// within that port. Pins count 16 per port from PA0 = 0, as machine.Pin does.
func PinBSRR(pin uint8) (bsrrAddr uintptr, bit uint8) {
	port := uintptr(pin / 16)
	return GPIOPortBase + port*GPIOPortStride + GPIOBSRROffset, pin % 16
}
