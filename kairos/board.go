//go:build linux

package kairos

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	pb "go.viam.com/api/component/board/v1"
	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/grpc"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"

	"viam-labs/viam-kairos/pins"
)

const (
	lookupKey  = "lookup"
	entriesKey = "entries"
	boardIDKey = "board_id"

	resetCounterKey = "reset_counter"
	releasePinKey   = "release_pin"
)

type kairosBoard struct {
	resource.Named
	resource.AlwaysRebuild

	mu     sync.Mutex
	logger logging.Logger
	link   deviceLink
	reset  *resetLine
}

func init() {
	resource.RegisterComponent(
		board.API,
		Model,
		resource.Registration[board.Board, *Config]{Constructor: newBoard})
}

func newBoard(
	ctx context.Context,
	_ resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (board.Board, error) {
	cfg, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	logger.Infof("Starting Kairos driver for %s", pins.BoardID)

	var reset *resetLine
	if cfg.ResetLine != nil {
		reset, err = openResetLine(cfg.ResetChip, uint32(*cfg.ResetLine))
		if err != nil {
			return nil, err
		}
		logger.Info("resetting board")
		if err := reset.pulse(); err != nil {
			return nil, multierr.Combine(errors.Wrap(err, "reset board"), reset.Close())
		}
	}

	link, err := openLink(ctx, cfg.SerialPath, cfg.baudRate(), cfg.timeout(), logger)
	if err != nil {
		if reset != nil {
			err = multierr.Combine(err, reset.Close())
		}
		return nil, err
	}
	b := newBoardFromLink(conf.ResourceName(), link, logger)
	b.reset = reset
	return b, nil
}

func newBoardFromLink(name resource.Name, link deviceLink, logger logging.Logger) *kairosBoard {
	return &kairosBoard{
		Named:  name.AsNamed(),
		logger: logger,
		link:   link,
	}
}

// resolvePin maps a table name or raw designator to a pin. Buses are not pins.
func resolvePin(name string) (pins.Pin, error) {
	h, ok := pins.Resolve(name)
	if !ok {
		return 0, errors.Wrapf(pins.ErrUnknownPin, "%q", name)
	}
	p, ok := h.(pins.Pin)
	if !ok {
		return 0, errors.Errorf("%q is a bus (%v), not a pin", name, h)
	}
	return p, nil
}

// StreamTicks starts a stream of digital interrupt ticks. The Kairos does not support this feature.
func (b *kairosBoard) StreamTicks(ctx context.Context, interrupts []board.DigitalInterrupt,
	ch chan board.Tick, extra map[string]interface{},
) error {
	return grpc.UnimplementedError
}

func (b *kairosBoard) AnalogByName(name string) (board.Analog, error) {
	p, err := resolvePin(name)
	if err != nil {
		b.logger.Error(err)
		return nil, err
	}
	if !p.Analog() {
		return nil, errors.Errorf("pin %s (%v) has no ADC input", name, p)
	}
	pin := &analogPin{Name: name, Pin: p, exec: b.link}
	b.logger.Debugf("Analog Pin: %#v", pin)
	return pin, nil
}

// DigitalInterruptByName returns an edge counter on the named pin.
func (b *kairosBoard) DigitalInterruptByName(name string) (board.DigitalInterrupt, error) {
	p, err := resolvePin(name)
	if err != nil {
		b.logger.Error(err)
		return nil, err
	}
	interrupt := &digitalInterrupt{PinName: name, Pin: p, exec: b.link}
	b.logger.Debugf("Interrupt Pin: %#v", interrupt)
	return interrupt, nil
}

// AnalogNames lists the table entries wired to an ADC capable pin.
func (b *kairosBoard) AnalogNames() []string {
	var names []string
	for _, e := range pins.Entries() {
		if p, ok := e.Target.(pins.Pin); ok && p.Analog() {
			names = append(names, e.Name)
		}
	}
	return names
}

func (b *kairosBoard) DigitalInterruptNames() []string {
	return nil
}

// GPIOPinNames lists the pin entries of the board table.
func (b *kairosBoard) GPIOPinNames() []string {
	var names []string
	for _, e := range pins.Entries() {
		if e.Target.Kind() == pins.KindPin {
			names = append(names, e.Name)
		}
	}
	return names
}

func (b *kairosBoard) GPIOPinByName(pinName string) (board.GPIOPin, error) {
	p, err := resolvePin(pinName)
	if err != nil {
		return nil, err
	}
	return &gpioPin{Name: pinName, Pin: p, exec: b.link, logger: b.logger}, nil
}

func (b *kairosBoard) SetPowerMode(ctx context.Context, mode pb.PowerMode, duration *time.Duration) error {
	return grpc.UnimplementedError
}

func (b *kairosBoard) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger.Info("Closing Kairos board.")
	err := b.link.Close()
	if b.reset != nil {
		err = multierr.Combine(err, b.reset.Close())
		b.reset = nil
	}
	if err != nil {
		return err
	}
	b.logger.Info("Board closed.")
	return nil
}

func describe(name string, h pins.Handle) map[string]interface{} {
	return map[string]interface{}{
		"name":   name,
		"kind":   h.Kind().String(),
		"target": h.String(),
	}
}

func (b *kairosBoard) DoCommand(ctx context.Context,
	req map[string]interface{},
) (map[string]interface{}, error) {
	resp := make(map[string]interface{})

	if msg, ok := req[lookupKey]; ok {
		name, ok := msg.(string)
		if !ok {
			return nil, errors.Errorf("error performing %s: expected string got %v", lookupKey, msg)
		}
		h, found := pins.Lookup(name)
		if found {
			resp[lookupKey] = describe(name, h)
		}
		resp["found"] = found
	}
	if _, ok := req[entriesKey]; ok {
		entries := pins.Entries()
		out := make([]interface{}, 0, len(entries))
		for _, e := range entries {
			out = append(out, describe(e.Name, e.Target))
		}
		resp[entriesKey] = out
	}
	if _, ok := req[boardIDKey]; ok {
		resp[boardIDKey] = pins.BoardID
	}
	if msg, ok := req[resetCounterKey]; ok {
		di, err := b.counterFromCommand(resetCounterKey, msg)
		if err != nil {
			return nil, err
		}
		if err := di.Reset(ctx); err != nil {
			return nil, err
		}
		resp[resetCounterKey] = di.PinName
	}
	if msg, ok := req[releasePinKey]; ok {
		di, err := b.counterFromCommand(releasePinKey, msg)
		if err != nil {
			return nil, err
		}
		if err := di.Close(ctx); err != nil {
			return nil, err
		}
		resp[releasePinKey] = di.PinName
	}
	if len(resp) == 0 {
		return nil, errors.Errorf("no valid commands found, got %#v", req)
	}
	return resp, nil
}

func (b *kairosBoard) counterFromCommand(key string, msg interface{}) (*digitalInterrupt, error) {
	name, ok := msg.(string)
	if !ok {
		return nil, errors.Errorf("error performing %s: expected string got %v", key, msg)
	}
	p, err := resolvePin(name)
	if err != nil {
		return nil, err
	}
	return &digitalInterrupt{PinName: name, Pin: p, exec: b.link}, nil
}
