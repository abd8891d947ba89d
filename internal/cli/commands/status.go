package commands

import (
	"GophChat/internal/config"
	"context"
	"fmt"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show who the server thinks you are" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	result, err := newClient(cfg).Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Status:", result)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
