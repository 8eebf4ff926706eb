package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/KirkDiggler/alchemist-formulas/internal/discord"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
)

// terminalConfirmer asks prompts on a terminal. Anything but y or yes declines.
type terminalConfirmer struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer(in io.Reader, out io.Writer) *terminalConfirmer {
	return &terminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *terminalConfirmer) Confirm(ctx context.Context, prompt *reconciler.Prompt) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	text := strings.ReplaceAll(discord.PromptText(prompt), "**", "")
	fmt.Fprintf(c.out, "\n%s\n%s [y/N] ", discord.PromptTitle(prompt), text)

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
