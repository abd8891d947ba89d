package commands

import (
	"GophChat/internal/config"
	"context"
	"fmt"
)

type modelsCmd struct{}

func (modelsCmd) Name() string        { return "models" }
func (modelsCmd) Description() string { return "List available models" }
func (modelsCmd) Usage() string       { return "models" }

func (modelsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	models, err := newClient(cfg).Models(ctx)
	if err != nil {
		return err
	}
	for i, m := range models {
		flags := ""
		if i == 0 {
			flags += " (default)"
		}
		if m.SupportsImageOutput {
			flags += " [image]"
		}
		fmt.Fprintf(Out, "%-45s %s%s\n", m.ID, m.Name, flags)
	}
	return nil
}

func init() { RegisterCmd(modelsCmd{}) }
