package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
)

type terminalUI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	clear  bool // séquence ANSI d'effacement avant Show

	once    sync.Once
	lines   chan string
	readErr error
}

// NewTerminal construit l'interface sur stdin/stdout/stderr.
func NewTerminal() Interface {
	return NewTerminalWith(os.Stdin, os.Stdout, os.Stderr, true)
}

// NewTerminalWith construit l'interface sur des flux fournis (tests, redirections).
func NewTerminalWith(in io.Reader, out, errOut io.Writer, clear bool) Interface {
	return &terminalUI{in: in, out: out, errOut: errOut, clear: clear}
}

// pump lit l'entrée ligne par ligne ; le canal est fermé en fin d'entrée.
func (t *terminalUI) pump() {
	r := bufio.NewReader(t.in)
	for {
		s, err := r.ReadString('\n')
		if s != "" || err == nil {
			t.lines <- strings.TrimRight(s, "\r\n")
		}
		if err != nil {
			t.readErr = err
			close(t.lines)
			return
		}
	}
}

// readLine attend une ligne ou l'annulation de ctx.
func (t *terminalUI) readLine(ctx context.Context) (string, error) {
	t.once.Do(func() {
		t.lines = make(chan string)
		go t.pump()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case s, ok := <-t.lines:
		if !ok {
			return "", fmt.Errorf("lecture stdin: %w", t.readErr)
		}
		return s, nil
	}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, s)
}

func (t *terminalUI) Prompt(ctx context.Context, question string) (string, error) {
	fmt.Fprint(t.out, question)
	s, err := t.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (t *terminalUI) WaitForEnter(ctx context.Context) (bool, error) {
	s, err := t.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "q", "quit":
		return true, nil
	}
	return false, nil
}

func (t *terminalUI) Show(ctx context.Context, lines ...string) {
	if t.clear {
		// efface l'écran et replace le curseur en haut à gauche
		fmt.Fprint(t.out, "\033[H\033[2J")
	}
	for _, l := range lines {
		fmt.Fprintln(t.out, l)
	}
}

func (t *terminalUI) WaitForExit(ctx context.Context) error {
	fmt.Fprintln(t.out, "\nAppuyez sur Ctrl+C pour quitter.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sigCh:
		return nil
	}
}
