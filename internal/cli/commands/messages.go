package commands

import (
	"GophChat/internal/cli/model"
	"GophChat/internal/config"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type messagesCmd struct{}

func (messagesCmd) Name() string        { return "messages" }
func (messagesCmd) Description() string { return "Print the chat transcript" }
func (messagesCmd) Usage() string       { return "messages <chat> [--save-images <dir>]" }

func (messagesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var saveDir string
	switch {
	case len(args) == 1:
	case len(args) == 3 && args[1] == "--save-images":
		saveDir = args[2]
	default:
		return ErrUsage
	}
	msgs, err := newClient(cfg).Messages(ctx, args[0])
	if err != nil {
		return err
	}
	for _, m := range msgs {
		printMessage(m)
		if saveDir != "" && m.ImageData != nil {
			p, err := saveImage(saveDir, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(Out, "    saved to %s\n", p)
		}
	}
	return nil
}

func printMessage(m model.Message) {
	content := m.Content
	if m.ContentType == "image" {
		content = "[image] " + content
	}
	fmt.Fprintf(Out, "%-9s %s\n", m.Role+":", content)
}

func saveImage(dir string, m model.Message) (string, error) {
	data, err := base64.StdEncoding.DecodeString(*m.ImageData)
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", m.ID, err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	p := filepath.Join(dir, m.ID+".png")
	return p, os.WriteFile(p, data, 0o600)
}

type sendCmd struct{}

func (sendCmd) Name() string        { return "send" }
func (sendCmd) Description() string { return "Send a message and print the reply" }
func (sendCmd) Usage() string       { return "send <chat> <text...>" }

func (sendCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	reply, err := newClient(cfg).Send(ctx, args[0], strings.Join(args[1:], " "), "")
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, reply)
	return nil
}

type imageCmd struct{}

func (imageCmd) Name() string        { return "image" }
func (imageCmd) Description() string { return "Generate an image in the chat" }
func (imageCmd) Usage() string       { return "image <chat> <prompt...>" }

func (imageCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	caption, err := newClient(cfg).Image(ctx, args[0], strings.Join(args[1:], " "), "")
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, caption)
	fmt.Fprintf(Out, "Use \"messages %s --save-images <dir>\" to save the picture\n", args[0])
	return nil
}

func init() {
	RegisterCmd(messagesCmd{})
	RegisterCmd(sendCmd{})
	RegisterCmd(imageCmd{})
}
