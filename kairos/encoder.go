//go:build linux

package kairos

import (
	"context"

	"github.com/pkg/errors"
	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/components/encoder"
	"go.viam.com/rdk/grpc"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/utils"
)

// kairosEncoder wraps a counter on a Kairos board pin with the Encoder interface.
// The board may be a remote client, so the counter is only reached through
// the board API and its DoCommand.
type kairosEncoder struct {
	resource.Named
	resource.AlwaysRebuild
	board   board.Board
	pinName string
	counter board.DigitalInterrupt
}

// EncoderModel is the model triplet for the Kairos board encoder.
var EncoderModel = resource.NewModel("viam-labs", "kairos", "same51j20-encoder")

// EncoderConfig is the config for the Kairos board encoder.
type EncoderConfig struct {
	Board string `json:"board"`
	Name  string `json:"pin_name"`
}

func init() {
	resource.RegisterComponent(
		encoder.API,
		EncoderModel,
		resource.Registration[encoder.Encoder, *EncoderConfig]{Constructor: newEncoder})
}

// Validate validates the EncoderConfig.
func (cfg *EncoderConfig) Validate(path string) ([]string, error) {
	if cfg.Board == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if cfg.Name == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "pin_name")
	}
	return []string{cfg.Board}, nil
}

func newEncoder(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (encoder.Encoder, error) {
	svcConfig, err := resource.NativeConfig[*EncoderConfig](conf)
	if err != nil {
		return nil, err
	}
	b, err := board.FromDependencies(deps, svcConfig.Board)
	if err != nil {
		return nil, err
	}
	return newEncoderOnBoard(conf.ResourceName(), b, svcConfig.Name)
}

func newEncoderOnBoard(name resource.Name, b board.Board, pinName string) (*kairosEncoder, error) {
	di, err := b.DigitalInterruptByName(pinName)
	if err != nil {
		return nil, err
	}
	return &kairosEncoder{Named: name.AsNamed(), board: b, pinName: pinName, counter: di}, nil
}

// Position returns the number of rising edges counted since the last reset.
func (enc *kairosEncoder) Position(ctx context.Context, positionType encoder.PositionType,
	extra map[string]interface{},
) (float64, encoder.PositionType, error) {
	if positionType == encoder.PositionTypeDegrees {
		return 0, encoder.PositionTypeUnspecified, errors.New("encoder does not support degrees")
	}
	count, err := enc.counter.Value(ctx, extra)
	if err != nil {
		return 0, encoder.PositionTypeUnspecified, err
	}
	return float64(count), encoder.PositionTypeTicks, nil
}

func (enc *kairosEncoder) ResetPosition(ctx context.Context, extra map[string]interface{}) error {
	_, err := enc.board.DoCommand(ctx, map[string]interface{}{resetCounterKey: enc.pinName})
	return errors.Wrapf(err, "cannot reset encoder on %s", enc.pinName)
}

func (enc *kairosEncoder) Properties(ctx context.Context, extra map[string]interface{}) (encoder.Properties, error) {
	return encoder.Properties{TicksCountSupported: true, AngleDegreesSupported: false}, nil
}

func (enc *kairosEncoder) DoCommand(ctx context.Context, req map[string]interface{}) (map[string]interface{}, error) {
	return nil, grpc.UnimplementedError
}

// Close releases the counter so the pin can be reused.
func (enc *kairosEncoder) Close(ctx context.Context) error {
	_, err := enc.board.DoCommand(ctx, map[string]interface{}{releasePinKey: enc.pinName})
	return err
}
