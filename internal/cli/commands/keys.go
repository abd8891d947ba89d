package commands

import (
	"GophChat/internal/config"
	"context"
	"fmt"
)

type keysCmd struct{}

func (keysCmd) Name() string        { return "keys" }
func (keysCmd) Description() string { return "List saved API keys (without secrets)" }
func (keysCmd) Usage() string       { return "keys" }

func (keysCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	keys, err := newClient(cfg).Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(Out, "No keys")
		return nil
	}
	for _, k := range keys {
		state := ""
		if k.IsActive {
			state = "active"
		}
		fmt.Fprintf(Out, "%s  %-8s %-20s %s\n", k.ID, k.Provider, k.KeyName, state)
	}
	return nil
}

type keyAddCmd struct{}

func (keyAddCmd) Name() string        { return "key-add" }
func (keyAddCmd) Description() string { return "Save an API key and make it active" }
func (keyAddCmd) Usage() string       { return "key-add <provider> <name> <secret>" }

func (keyAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	k, err := newClient(cfg).SaveKey(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Saved key %s (%s), now active\n", k.KeyName, k.ID)
	return nil
}

type keyDeleteCmd struct{}

func (keyDeleteCmd) Name() string        { return "key-delete" }
func (keyDeleteCmd) Description() string { return "Delete an API key" }
func (keyDeleteCmd) Usage() string       { return "key-delete <id>" }

func (keyDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newClient(cfg).DeleteKey(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Deleted")
	return nil
}

func init() {
	RegisterCmd(keysCmd{})
	RegisterCmd(keyAddCmd{})
	RegisterCmd(keyDeleteCmd{})
}
