//go:build linux

package kairos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/grpc"

	"viam-labs/viam-kairos/pins"
)

// digitalInterrupt counts rising edges with countio. Only the Value API is supported.
type digitalInterrupt struct {
	PinName string // Variable name
	Pin     pins.Pin
	exec    executor
}

func (di *digitalInterrupt) Value(ctx context.Context, extra map[string]interface{}) (int64, error) {
	out, err := di.exec.Exec(ctx, fmt.Sprintf("print(_cnt(%q).count)", di.Pin.String()))
	if err != nil {
		return 0, errors.Wrapf(err, "cannot read counter on %s", di.PinName)
	}
	return parseInt(out)
}

// Reset zeroes the counter on the board.
func (di *digitalInterrupt) Reset(ctx context.Context) error {
	_, err := di.exec.Exec(ctx, fmt.Sprintf("_cnt(%q).reset()", di.Pin.String()))
	return errors.Wrapf(err, "cannot reset counter on %s", di.PinName)
}

func (di *digitalInterrupt) Name() string {
	return di.PinName
}

func (di *digitalInterrupt) Tick(ctx context.Context, high bool, nanoseconds uint64) error {
	return grpc.UnimplementedError
}

func (di *digitalInterrupt) AddCallback(c chan board.Tick) {}

func (di *digitalInterrupt) RemoveCallback(c chan board.Tick) {}

// Close releases the counter so the pin can be used for something else.
func (di *digitalInterrupt) Close(ctx context.Context) error {
	_, err := di.exec.Exec(ctx, fmt.Sprintf("_free(%q)", di.Pin.String()))
	return err
}
