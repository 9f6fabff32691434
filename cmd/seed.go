package cmd

import (
	"context"
	"fmt"
	"os"

	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/domain/model/kernel"

	"gopkg.in/yaml.v3"
)

type commandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// Seed lists the couriers created at startup.
type Seed struct {
	Couriers []SeedCourier `yaml:"couriers"`
}

type SeedCourier struct {
	Name   string  `yaml:"name"`
	Lat    float64 `yaml:"lat"`
	Lng    float64 `yaml:"lng"`
	Online bool    `yaml:"online"`
}

func LoadSeed(path string) (Seed, error) {
	var s Seed
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read seed file: %w", err)
	}
	if err = yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Apply creates every courier of the seed and brings the online ones online.
func (s Seed) Apply(
	ctx context.Context,
	create commandHandler[commands.CreateCourierCommand],
	availability commandHandler[commands.ChangeCourierAvailabilityCommand],
) error {
	for i, c := range s.Couriers {
		location, err := kernel.NewLocation(c.Lat, c.Lng)
		if err != nil {
			return fmt.Errorf("courier #%d: %w", i, err)
		}
		cmd, err := commands.NewCreateCourierCommand(c.Name, location)
		if err != nil {
			return fmt.Errorf("courier #%d: %w", i, err)
		}
		if err = create.Handle(ctx, cmd); err != nil {
			return fmt.Errorf("create courier %q: %w", c.Name, err)
		}
		if !c.Online {
			continue
		}

		online, err := commands.NewChangeCourierAvailabilityCommand(cmd.CourierID(), true)
		if err != nil {
			return err
		}
		if err = availability.Handle(ctx, online); err != nil {
			return fmt.Errorf("bring courier %q online: %w", c.Name, err)
		}
	}
	return nil
}
