//go:build linux

package kairos

import (
	"time"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

const (
	resetPulse  = 10 * time.Millisecond
	resetSettle = 2 * time.Second
)

// resetLine drives the MCU reset pin from a host gpiochip. The pin is active low.
type resetLine struct {
	line *gpio.Line
}

func openResetLine(chipName string, offset uint32) (*resetLine, error) {
	chip, err := gpio.OpenChip(chipName)
	if err != nil {
		return nil, errors.Wrapf(err, "open gpio chip %s", chipName)
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	line, err := chip.OpenLine(offset, 1, gpio.Output, "kairos-reset")
	if err != nil {
		return nil, errors.Wrapf(err, "open reset line %d on %s", offset, chipName)
	}
	return &resetLine{line: line}, nil
}

// pulse holds reset low briefly and waits for the firmware to come back up.
func (r *resetLine) pulse() error {
	if err := r.line.SetValue(0); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	if err := r.line.SetValue(1); err != nil {
		return err
	}
	time.Sleep(resetSettle)
	return nil
}

func (r *resetLine) Close() error {
	return r.line.Close()
}
