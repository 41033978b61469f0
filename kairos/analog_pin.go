//go:build linux

package kairos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"viam-labs/viam-kairos/pins"
)

type analogPin struct {
	Name string // name the pin was requested by
	Pin  pins.Pin
	exec executor
}

// Read returns the raw 16 bit sample.
func (pin *analogPin) Read(ctx context.Context, extra map[string]interface{}) (int, error) {
	out, err := pin.exec.Exec(ctx, fmt.Sprintf("print(_ain(%q).value)", pin.Pin.String()))
	if err != nil {
		return 0, errors.Wrapf(err, "cannot read analog pin %s", pin.Name)
	}
	v, err := parseInt(out)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Write sets the DAC output, 0 to 65535.
func (pin *analogPin) Write(ctx context.Context, value int, extra map[string]interface{}) error {
	if !pin.Pin.DAC() {
		return errors.Errorf("cannot WriteAnalog, pin %s is not an analog output pin", pin.Name)
	}
	if value < 0 || value > fullScale {
		return errors.Errorf("analog value %d out of range [0, %d]", value, fullScale)
	}
	_, err := pin.exec.Exec(ctx, fmt.Sprintf("_aout(%q).value = %d", pin.Pin.String(), value))
	return errors.Wrapf(err, "cannot write analog pin %s", pin.Name)
}

func (pin *analogPin) Close(ctx context.Context) error {
	// There is nothing to close with respect to individual analog _reader_ pins
	return nil
}

func (b *kairosBoard) WriteAnalog(ctx context.Context, pin string, value int32, extra map[string]interface{}) error {
	p, err := resolvePin(pin)
	if err != nil {
		return err
	}
	analog := &analogPin{Name: pin, Pin: p, exec: b.link}
	b.logger.Debugf("Analog: %#v", analog)
	return analog.Write(ctx, int(value), extra)
}
