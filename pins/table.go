package pins

import (
	"fmt"

	"go.uber.org/multierr"
)

// Entry maps a board level name to its target.
type Entry struct {
	Name   string
	Target Handle
}

// table is the board namespace, in declaration order.
var table = []Entry{
	{"IsoNegAnalogIn", PA02},
	{"VREF", PA03},
	{"A0", PA04},
	{"IsoPosAnalogIn", PA05},
	{"A1", PA06},
	{"SDA", PA12},
	{"SCL", PA13},
	{"DO1", PA14},
	{"DO2", PA16},
	{"SCK", PA17},
	{"RelayNeg", PA18},
	{"RelayPos", PA19},
	{"D0", PA20},
	{"D1", PA21},
	{"D2", PA22},
	{"D3", PA23},
	{"BatteryMonitor", PB00},
	{"NeoPWR", PB02},
	{"NEOPIXEL", PB03},
	{"HVmeasurementAnalogIn", PB08},
	{"A2", PB09},
	{"BoostEnableOut", PB13},
	{"TXD5", PB16},
	{"RXD6", PB17},
	{"MISO", PB22},
	{"MOSI", PB23},
	{"CANTX", PB14},
	{"CANRX", PB15},
	{"CANS", PB12},

	{"I2C", i2c0},
	{"SPI", spi0},
	{"UART", uart0},
}

var index = mustIndex(table)

func mustIndex(entries []Entry) map[string]Handle {
	if err := Validate(entries); err != nil {
		panic(err)
	}
	m := make(map[string]Handle, len(entries))
	for _, e := range entries {
		m[e.Name] = e.Target
	}
	return m
}

// Validate reports every duplicate name and every entry without a target.
func Validate(entries []Entry) error {
	var errs error
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("entry %d has no name", i))
		}
		if first, ok := seen[e.Name]; ok {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: duplicate name %q (first at %d)", i, e.Name, first))
		} else {
			seen[e.Name] = i
		}
		if b, isBus := e.Target.(*Bus); e.Target == nil || (isBus && b == nil) {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %q has no target", i, e.Name))
		}
	}
	return errs
}

// Lookup returns the handle declared for name.
func Lookup(name string) (Handle, bool) {
	h, ok := index[name]
	return h, ok
}

// Resolve looks name up in the board table, then in the raw pin namespace (PA02, PB23, ...).
func Resolve(name string) (Handle, bool) {
	if h, ok := Lookup(name); ok {
		return h, true
	}
	p, err := ParsePin(name)
	if err != nil {
		return nil, false
	}
	return p, true
}

// Entries returns a copy of the table in declaration order.
func Entries() []Entry {
	return append([]Entry(nil), table...)
}

// Names returns the table names in declaration order.
func Names() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.Name
	}
	return names
}

// Len is the number of table entries.
func Len() int {
	return len(table)
}
