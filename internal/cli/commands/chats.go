package commands

import (
	"GophChat/internal/config"
	"context"
	"fmt"
	"strings"
	"time"
)

type chatsCmd struct{}

func (chatsCmd) Name() string        { return "chats" }
func (chatsCmd) Description() string { return "List recent chats" }
func (chatsCmd) Usage() string       { return "chats" }

func (chatsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	chats, err := newClient(cfg).Chats(ctx)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Fprintln(Out, "No chats")
		return nil
	}
	for _, c := range chats {
		fmt.Fprintf(Out, "%s  %-30s %-25s %s\n", c.ID, c.Title, c.Model, c.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}

type newChatCmd struct{}

func (newChatCmd) Name() string        { return "new-chat" }
func (newChatCmd) Description() string { return "Create a chat" }
func (newChatCmd) Usage() string       { return "new-chat [model] [title...]" }

func (newChatCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var modelID, title string
	if len(args) > 0 {
		modelID = args[0]
	}
	if len(args) > 1 {
		title = strings.Join(args[1:], " ")
	}
	chat, err := newClient(cfg).CreateChat(ctx, modelID, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created chat %s (%s, %s)\n", chat.ID, chat.Title, chat.Model)
	return nil
}

type renameCmd struct{}

func (renameCmd) Name() string        { return "rename" }
func (renameCmd) Description() string { return "Rename a chat" }
func (renameCmd) Usage() string       { return "rename <chat> <title...>" }

func (renameCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	chat, err := newClient(cfg).RenameChat(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Renamed chat %s to %q\n", chat.ID, chat.Title)
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Delete a chat with all its messages" }
func (deleteCmd) Usage() string       { return "delete <chat>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newClient(cfg).DeleteChat(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Deleted")
	return nil
}

func init() {
	RegisterCmd(chatsCmd{})
	RegisterCmd(newChatCmd{})
	RegisterCmd(renameCmd{})
	RegisterCmd(deleteCmd{})
}
