//go:build linux

package kairos

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/grpc"
	"go.viam.com/rdk/logging"
	"go.viam.com/test"

	"viam-labs/viam-kairos/pins"
)

func newTestBoard(t *testing.T) (*kairosBoard, *fakeExec) {
	t.Helper()
	link := &fakeExec{}
	return newBoardFromLink(board.Named("kairos"), link, logging.NewTestLogger(t)), link
}

func TestGPIOPin(t *testing.T) {
	ctx := context.Background()
	b, link := newTestBoard(t)

	pin, err := b.GPIOPinByName("NEOPIXEL")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, pin.Set(ctx, true, nil), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_dio("PB03").switch_to_output(value=True)`)
	test.That(t, pin.Set(ctx, false, nil), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_dio("PB03").switch_to_output(value=False)`)

	link.reply = replyWith("1\r\n")
	high, err := pin.Get(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, high, test.ShouldBeTrue)
	test.That(t, link.last(), test.ShouldEqual, `print(int(_dio("PB03").value))`)

	link.reply = replyWith("0\r\n")
	high, err = pin.Get(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, high, test.ShouldBeFalse)
}

func TestGPIOPinByRawName(t *testing.T) {
	b, link := newTestBoard(t)
	pin, err := b.GPIOPinByName("PA20")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pin.Set(context.Background(), true, nil), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_dio("PA20").switch_to_output(value=True)`)
}

func TestGPIOPinByNameErrors(t *testing.T) {
	b, _ := newTestBoard(t)

	_, err := b.GPIOPinByName("D13")
	test.That(t, errors.Is(err, pins.ErrUnknownPin), test.ShouldBeTrue)

	_, err = b.GPIOPinByName("I2C")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "is a bus")
}

func TestGPIOPinPWM(t *testing.T) {
	ctx := context.Background()
	b, link := newTestBoard(t)
	pin, err := b.GPIOPinByName("D0")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, pin.SetPWM(ctx, 0.5, nil), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_pwm("PA20").duty_cycle = 32768`)
	test.That(t, pin.SetPWM(ctx, 1.5, nil), test.ShouldNotBeNil)
	test.That(t, pin.SetPWM(ctx, -0.1, nil), test.ShouldNotBeNil)

	link.reply = replyWith("65535\r\n")
	duty, err := pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldEqual, 1.0)

	link.reply = replyWith("500\r\n")
	freq, err := pin.PWMFreq(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, freq, test.ShouldEqual, uint(500))

	test.That(t, pin.SetPWMFreq(ctx, 0, nil), test.ShouldNotBeNil)
	test.That(t, pin.SetPWMFreq(ctx, 1000, nil), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_pwm("PA20").frequency = 1000`)
}

func TestGPIOPinBoardError(t *testing.T) {
	b, link := newTestBoard(t)
	link.reply = func(string) (string, error) {
		return "", &execError{traceback: "ValueError: PB14 in use"}
	}
	pin, err := b.GPIOPinByName("CANTX")
	test.That(t, err, test.ShouldBeNil)

	err = pin.Set(context.Background(), true, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "CANTX")
	test.That(t, err.Error(), test.ShouldContainSubstring, "ValueError: PB14 in use")

	link.reply = replyWith("garbage")
	_, err = pin.Get(context.Background(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAnalog(t *testing.T) {
	ctx := context.Background()
	b, link := newTestBoard(t)

	a0, err := b.AnalogByName("A0")
	test.That(t, err, test.ShouldBeNil)
	link.reply = replyWith("12345\r\n")
	v, err := a0.Read(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 12345)
	test.That(t, link.last(), test.ShouldEqual, `print(_ain("PA04").value)`)

	_, err = b.AnalogByName("D0")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = b.AnalogByName("SPI")
	test.That(t, err, test.ShouldNotBeNil)

	link.reply = nil
	err = b.WriteAnalog(ctx, "A0", 100, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not an analog output pin")
	test.That(t, b.WriteAnalog(ctx, "IsoNegAnalogIn", 70000, nil), test.ShouldNotBeNil)
	test.That(t, b.WriteAnalog(ctx, "IsoNegAnalogIn", 1000, nil), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_aout("PA02").value = 1000`)
}

func TestNames(t *testing.T) {
	b, _ := newTestBoard(t)

	gpioNames := b.GPIOPinNames()
	test.That(t, gpioNames, test.ShouldHaveLength, 29)
	test.That(t, gpioNames[0], test.ShouldEqual, "IsoNegAnalogIn")
	test.That(t, gpioNames[28], test.ShouldEqual, "CANS")
	test.That(t, gpioNames, test.ShouldNotContain, "UART")

	test.That(t, b.AnalogNames(), test.ShouldResemble, []string{
		"IsoNegAnalogIn", "VREF", "A0", "IsoPosAnalogIn", "A1",
		"BatteryMonitor", "NeoPWR", "NEOPIXEL", "HVmeasurementAnalogIn", "A2",
	})
	test.That(t, b.DigitalInterruptNames(), test.ShouldBeEmpty)
}

func TestDigitalInterrupt(t *testing.T) {
	ctx := context.Background()
	b, link := newTestBoard(t)

	di, err := b.DigitalInterruptByName("D1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, di.Name(), test.ShouldEqual, "D1")

	link.reply = replyWith("42\r\n")
	v, err := di.Value(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, int64(42))
	test.That(t, link.last(), test.ShouldEqual, `print(_cnt("PA21").count)`)

	test.That(t, di.(*digitalInterrupt).Close(ctx), test.ShouldBeNil)
	test.That(t, link.last(), test.ShouldEqual, `_free("PA21")`)
}

func TestDoCommand(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t)

	resp, err := b.DoCommand(ctx, map[string]interface{}{"lookup": "NEOPIXEL"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["found"], test.ShouldEqual, true)
	test.That(t, resp["lookup"], test.ShouldResemble, map[string]interface{}{
		"name": "NEOPIXEL", "kind": "pin", "target": "PB03",
	})

	resp, err = b.DoCommand(ctx, map[string]interface{}{"lookup": "SPI"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["lookup"], test.ShouldResemble, map[string]interface{}{
		"name": "SPI", "kind": "bus", "target": "SPI(SCK=PA17,MOSI=PB23,MISO=PB22)",
	})

	resp, err = b.DoCommand(ctx, map[string]interface{}{"lookup": "missing"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["found"], test.ShouldEqual, false)
	_, ok := resp["lookup"]
	test.That(t, ok, test.ShouldBeFalse)

	resp, err = b.DoCommand(ctx, map[string]interface{}{"entries": true, "board_id": true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["entries"], test.ShouldHaveLength, pins.Len())
	test.That(t, resp["board_id"], test.ShouldEqual, "same51j20_no_flash")

	resp, err = b.DoCommand(ctx, map[string]interface{}{"reset_counter": "D2"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["reset_counter"], test.ShouldEqual, "D2")
	_, err = b.DoCommand(ctx, map[string]interface{}{"reset_counter": "I2C"})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = b.DoCommand(ctx, map[string]interface{}{"release_pin": 5})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = b.DoCommand(ctx, map[string]interface{}{"lookup": 3})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = b.DoCommand(ctx, map[string]interface{}{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnimplemented(t *testing.T) {
	b, _ := newTestBoard(t)
	test.That(t, b.SetPowerMode(context.Background(), 0, nil), test.ShouldEqual, grpc.UnimplementedError)
	test.That(t, b.StreamTicks(context.Background(), nil, nil, nil), test.ShouldEqual, grpc.UnimplementedError)
}

func TestClose(t *testing.T) {
	b, link := newTestBoard(t)
	test.That(t, b.Close(context.Background()), test.ShouldBeNil)
	test.That(t, link.closed, test.ShouldBeTrue)
}
