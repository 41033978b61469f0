// Package pins holds the static pin table of the Kairos board, a SAME51J20
// design that runs CircuitPython as the same51j20_no_flash board.
package pins

import (
	"errors"
	"fmt"
	"strconv"
)

// BoardID is the board_id reported by the firmware.
const BoardID = "same51j20_no_flash"

// ErrUnknownPin is returned when a name is neither a table entry nor a pin designator.
var ErrUnknownPin = errors.New("unknown pin")

// Kind tells the two handle flavours apart.
type Kind int

const (
	// KindPin is a single microcontroller pin.
	KindPin Kind = iota + 1
	// KindBus is a pre-configured communication bus.
	KindBus
)

func (k Kind) String() string {
	switch k {
	case KindPin:
		return "pin"
	case KindBus:
		return "bus"
	default:
		return "unknown"
	}
}

// Handle is the target of a table entry.
type Handle interface {
	Kind() Kind
	String() string
}

// Port is a SAME51 I/O port. The J variant only bonds out ports A and B.
type Port uint8

// Ports present on the SAME51J20.
const (
	PortA Port = iota
	PortB
)

// Pin is a SAME51 port pin: the port in the upper bits, the pin number in the lower five.
type Pin uint8

// Pins referenced by the board table.
const (
	PA02 Pin = 2
	PA03 Pin = 3
	PA04 Pin = 4
	PA05 Pin = 5
	PA06 Pin = 6
	PA12 Pin = 12
	PA13 Pin = 13
	PA14 Pin = 14
	PA16 Pin = 16
	PA17 Pin = 17
	PA18 Pin = 18
	PA19 Pin = 19
	PA20 Pin = 20
	PA21 Pin = 21
	PA22 Pin = 22
	PA23 Pin = 23

	PB00 Pin = 32
	PB02 Pin = 34
	PB03 Pin = 35
	PB08 Pin = 40
	PB09 Pin = 41
	PB12 Pin = 44
	PB13 Pin = 45
	PB14 Pin = 46
	PB15 Pin = 47
	PB16 Pin = 48
	PB17 Pin = 49
	PB22 Pin = 54
	PB23 Pin = 55
)

const pinsPerPort = 32

// Port returns the port the pin belongs to.
func (p Pin) Port() Port {
	return Port(p / pinsPerPort)
}

// Num returns the pin number within its port.
func (p Pin) Num() uint8 {
	return uint8(p % pinsPerPort)
}

// Kind implements Handle.
func (p Pin) Kind() Kind {
	return KindPin
}

// String renders the designator, e.g. PA13.
func (p Pin) String() string {
	return fmt.Sprintf("P%c%02d", 'A'+rune(p.Port()), p.Num())
}

// ADC inputs (ADC0 and ADC1) on the 64 pin package.
var analogPins = map[Pin]struct{}{
	2: {}, 3: {}, 4: {}, 5: {}, 6: {}, 7: {}, 8: {}, 9: {}, 10: {}, 11: {}, // PA02-PA11
	32: {}, 33: {}, 34: {}, 35: {}, 36: {}, 37: {}, 38: {}, 39: {}, 40: {}, 41: {}, // PB00-PB09
}

// Analog reports whether the pin can be sampled by an ADC.
func (p Pin) Analog() bool {
	_, ok := analogPins[p]
	return ok
}

// DAC reports whether the pin is a DAC output (VOUT0 on PA02, VOUT1 on PA05).
func (p Pin) DAC() bool {
	return p == PA02 || p == PA05
}

// ParsePin parses a designator such as "PB23".
func ParsePin(s string) (Pin, error) {
	if len(s) != 4 || s[0] != 'P' || s[1] < 'A' || s[1] > 'B' {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPin, s)
	}
	if !isDigit(s[2]) || !isDigit(s[3]) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPin, s)
	}
	n, err := strconv.Atoi(s[2:])
	if err != nil || n >= pinsPerPort {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPin, s)
	}
	return Pin(int(s[1]-'A')*pinsPerPort + n), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
