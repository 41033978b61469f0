//go:build linux

// Package kairos implements the Kairos board, a SAME51J20 running CircuitPython.
package kairos

import (
	"strings"
)

// raw REPL control characters.
const (
	ctrlA = 0x01 // enter raw REPL
	ctrlB = 0x02 // leave raw REPL
	ctrlC = 0x03 // interrupt
	ctrlD = 0x04 // execute / end of output
)

const (
	rawREPLBanner = "raw REPL; CTRL-B to exit\r\n>"
	execAck       = "OK"
	endOfOutput   = "\x04"
	writeChunk    = 256
)

// prelude is executed once after entering the raw REPL. It caches one I/O
// object per pin designator and releases the previous one when a pin
// changes role.
const prelude = `import microcontroller, digitalio, analogio, pwmio, countio
_k = {}
def _get(n, kind, make):
    o = _k.get(n)
    if o is not None:
        if o[0] == kind:
            return o[1]
        o[1].deinit()
        del _k[n]
    x = make(getattr(microcontroller.pin, n))
    _k[n] = (kind, x)
    return x
def _free(n):
    o = _k.pop(n, None)
    if o is not None:
        o[1].deinit()
def _dio(n):
    return _get(n, 'dio', digitalio.DigitalInOut)
def _ain(n):
    return _get(n, 'ain', analogio.AnalogIn)
def _aout(n):
    return _get(n, 'aout', analogio.AnalogOut)
def _pwm(n):
    return _get(n, 'pwm', lambda p: pwmio.PWMOut(p, frequency=500, variable_frequency=True))
def _cnt(n):
    return _get(n, 'cnt', countio.Counter)
`

// execError is a Python exception raised by code run on the board.
type execError struct {
	traceback string
}

func (e *execError) Error() string {
	lines := strings.Split(strings.TrimSpace(e.traceback), "\n")
	return "board raised " + strings.TrimSpace(lines[len(lines)-1])
}
