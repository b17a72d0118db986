// File: cmd/minke/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/xkilldash9x/minke/cmd"
	"github.com/xkilldash9x/minke/internal/observability"
)

const panicLogFile = "panic.log"

const banner = `
   minke - human-like input for a USB HID bridge
   type "help" for commands, "exit" to quit

`

// Function variables for mocking in tests.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
)

func main() {
	defer handlePanic()

	// Cancel on SIGINT/SIGTERM so a running move finishes its current step
	// and the device is released cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		if err := cmd.Execute(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				osExit(0)
			} else {
				osExit(1)
			}
		}
		return
	}

	if err := runShell(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading from stdin:", err)
		osExit(1)
	}
}

// runShell reads commands line by line until EOF, "exit" or cancellation.
func runShell(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	fmt.Fprint(out, banner)
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprint(out, "minke > ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		executeInteractiveCommand(ctx, line, out, errOut)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Bye.")
	return nil
}

// executeInteractiveCommand runs one shell line on a fresh command tree so
// flags from one line never leak into the next. Errors and panics are
// reported without leaving the shell.
func executeInteractiveCommand(ctx context.Context, line string, out, errOut io.Writer) {
	root := cmd.NewRootCommand()
	root.SetArgs(strings.Fields(line))
	root.SetOut(out)
	root.SetErr(errOut)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errOut, "Error: command panicked: %v\n", r)
		}
	}()
	// Cobra already printed the error.
	_ = root.ExecuteContext(ctx)
}

// handlePanic writes the panic and stack to panic.log and exits non-zero.
func handlePanic() {
	if r := recover(); r != nil {
		observability.Sync()

		panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
		if err := osWriteFile(panicLogFile, []byte(panicMessage), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL: Failed to write panic log: %v\n", err)
			fmt.Fprintf(os.Stderr, "Panic details:\n%s\n", panicMessage)
			osExit(2)
			return
		}
		fmt.Fprintf(os.Stderr, "minke crashed. Details logged to %s\n", panicLogFile)
		osExit(2)
	}
}
