// Command sasa runs tasks through an autonomous tool-using agent.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := streams{in: os.Stdin, out: os.Stdout, err: os.Stderr, color: useColor(os.Stdout)}
	if err := newApp(st).RunContext(ctx, os.Args); err != nil {
		stop()
		os.Exit(exitCode(err, st.err))
	}
}

// exitCode prints err unless it is a silent exit and returns the process status.
func exitCode(err error, w io.Writer) int {
	code := 1
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, msg)
	}
	return code
}

func useColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
