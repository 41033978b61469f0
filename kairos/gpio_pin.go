//go:build linux

package kairos

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"viam-labs/viam-kairos/pins"
)

// full scale of CircuitPython duty cycles and analog values.
const fullScale = 65535

// gpioPin drives a pin through digitalio, or pwmio once a PWM call is made.
// Switching between the two releases the previous object on the board.
type gpioPin struct {
	Name   string // name the pin was requested by
	Pin    pins.Pin
	exec   executor
	logger logging.Logger
}

// Set sets the state of the pin on or off.
func (pin *gpioPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	_, err := pin.exec.Exec(ctx, fmt.Sprintf("_dio(%q).switch_to_output(value=%s)", pin.Pin.String(), pyBool(high)))
	return errors.Wrapf(err, "cannot set pin state of %s", pin.Name)
}

// Get gets the high/low state of the pin.
func (pin *gpioPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	out, err := pin.exec.Exec(ctx, fmt.Sprintf("print(int(_dio(%q).value))", pin.Pin.String()))
	if err != nil {
		return false, errors.Wrapf(err, "cannot get pin state of %s", pin.Name)
	}
	v, err := parseInt(out)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// PWM gets the pin's given duty cycle.
func (pin *gpioPin) PWM(ctx context.Context, extra map[string]interface{}) (float64, error) {
	out, err := pin.exec.Exec(ctx, fmt.Sprintf("print(_pwm(%q).duty_cycle)", pin.Pin.String()))
	if err != nil {
		return 0, errors.Wrapf(err, "cannot get PWM of %s", pin.Name)
	}
	v, err := parseInt(out)
	if err != nil {
		return 0, err
	}
	if v > fullScale {
		pin.logger.Warnf("got PWM duty cycle %d greater than %d", v, fullScale)
	}
	return float64(v) / fullScale, nil
}

// SetPWM sets the pin to the given duty cycle.
func (pin *gpioPin) SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error {
	if dutyCyclePct > 1 {
		return errors.New("cannot set duty cycle greater than 100%")
	}
	if dutyCyclePct < 0 {
		return errors.New("cannot set duty cycle less than 0%")
	}
	duty := int(math.Round(dutyCyclePct * fullScale))
	_, err := pin.exec.Exec(ctx, fmt.Sprintf("_pwm(%q).duty_cycle = %d", pin.Pin.String(), duty))
	return errors.Wrapf(err, "cannot set PWM of %s", pin.Name)
}

// PWMFreq gets the PWM frequency of the pin.
func (pin *gpioPin) PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error) {
	out, err := pin.exec.Exec(ctx, fmt.Sprintf("print(_pwm(%q).frequency)", pin.Pin.String()))
	if err != nil {
		return 0, errors.Wrapf(err, "cannot get PWM frequency of %s", pin.Name)
	}
	v, err := parseInt(out)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.Errorf("board reported negative PWM frequency %d", v)
	}
	return uint(v), nil
}

// SetPWMFreq sets the given pin to the given PWM frequency.
func (pin *gpioPin) SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error {
	if freqHz == 0 {
		return errors.New("PWM frequency must be greater than 0")
	}
	_, err := pin.exec.Exec(ctx, fmt.Sprintf("_pwm(%q).frequency = %d", pin.Pin.String(), freqHz))
	return errors.Wrapf(err, "cannot set PWM frequency of %s", pin.Name)
}
