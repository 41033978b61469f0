// Package main is the Kairos board module.
package main

import (
	"context"

	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/components/encoder"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/module"
	"go.viam.com/utils"

	"viam-labs/viam-kairos/kairos"
)

func main() {
	utils.ContextualMain(mainWithArgs, module.NewLoggerFromArgs("kairos"))
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) (err error) {
	customModule, err := module.NewModuleFromArgs(ctx, logger)
	if err != nil {
		return err
	}

	err = customModule.AddModelFromRegistry(ctx, board.API, kairos.Model)
	if err != nil {
		return err
	}
	err = customModule.AddModelFromRegistry(ctx, encoder.API, kairos.EncoderModel)
	if err != nil {
		return err
	}

	err = customModule.Start(ctx)
	defer customModule.Close(ctx)
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
