package pins

import "strings"

// BusType is the protocol a Bus speaks.
type BusType int

// Bus protocols exposed by the board.
const (
	BusI2C BusType = iota + 1
	BusSPI
	BusUART
)

func (t BusType) String() string {
	switch t {
	case BusI2C:
		return "I2C"
	case BusSPI:
		return "SPI"
	case BusUART:
		return "UART"
	default:
		return "unknown"
	}
}

// BusPin binds a bus signal to a pin.
type BusPin struct {
	Role string
	Pin  Pin
}

// Bus is a pre-configured board bus. Buses are owned by this package and shared.
type Bus struct {
	typ  BusType
	pins []BusPin
}

// Board buses, wired the way the firmware configures them.
var (
	i2c0  = &Bus{typ: BusI2C, pins: []BusPin{{"SDA", PA12}, {"SCL", PA13}}}
	spi0  = &Bus{typ: BusSPI, pins: []BusPin{{"SCK", PA17}, {"MOSI", PB23}, {"MISO", PB22}}}
	uart0 = &Bus{typ: BusUART, pins: []BusPin{{"TX", PB16}, {"RX", PB17}}}
)

// I2C0 is the board I2C bus.
func I2C0() *Bus { return i2c0 }

// SPI0 is the board SPI bus.
func SPI0() *Bus { return spi0 }

// UART0 is the board UART bus.
func UART0() *Bus { return uart0 }

// Type returns the bus protocol.
func (b *Bus) Type() BusType {
	return b.typ
}

// Kind implements Handle.
func (b *Bus) Kind() Kind {
	return KindBus
}

// String renders the bus and its bindings, e.g. I2C(SDA=PA12,SCL=PA13).
func (b *Bus) String() string {
	parts := make([]string, 0, len(b.pins))
	for _, bp := range b.pins {
		parts = append(parts, bp.Role+"="+bp.Pin.String())
	}
	return b.typ.String() + "(" + strings.Join(parts, ",") + ")"
}

// Pins returns the signal bindings in declaration order.
func (b *Bus) Pins() []BusPin {
	return append([]BusPin(nil), b.pins...)
}

// Pin returns the pin bound to role.
func (b *Bus) Pin(role string) (Pin, bool) {
	for _, bp := range b.pins {
		if bp.Role == role {
			return bp.Pin, true
		}
	}
	return 0, false
}
