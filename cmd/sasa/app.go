package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/petasbytes/sasa/internal/config"
	"github.com/petasbytes/sasa/internal/logging"
	"github.com/petasbytes/sasa/internal/provider"
	"github.com/petasbytes/sasa/internal/runner"
	"github.com/petasbytes/sasa/internal/telemetry"
	"github.com/petasbytes/sasa/memory"
	"github.com/petasbytes/sasa/tools"
)

type streams struct {
	in    io.Reader
	out   io.Writer
	err   io.Writer
	color bool
}

func newApp(st streams) *cli.App {
	p := painter{color: st.color}

	agentFlags := []cli.Flag{
		&cli.StringFlag{Name: "api-key", Aliases: []string{"k"}, Usage: "Anthropic API key (or set ANTHROPIC_API_KEY env var)"},
		&cli.IntFlag{Name: "max-iterations", Usage: "maximum model calls per task"},
		&cli.StringFlag{Name: "model", Usage: "model identifier"},
	}

	return &cli.App{
		Name:            "sasa",
		Usage:           "SASA - Smart Autonomous System Agent. AI-powered task automation using Claude",
		Version:         "1.0.0",
		Reader:          st.in,
		Writer:          st.out,
		ErrWriter:       st.err,
		HideHelpCommand: true,
		ExitErrHandler:  func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a task automation",
				ArgsUsage: "[flags] <task>",
				Flags: append(agentFlags,
					&cli.StringFlag{Name: "transcript", Usage: "write the run transcript as JSON to `FILE`"},
				),
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("Error: missing task argument", 1)
					}
					args := c.Args().Slice()
					if flagAfterTask(args) {
						return cli.Exit("Error: flags must come before the task: sasa run [flags] <task>", 1)
					}
					return runOnce(c, st, p, strings.Join(args, " "))
				},
			},
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Start interactive mode",
				Flags:   agentFlags,
				Action: func(c *cli.Context) error {
					return interactive(c, st, p)
				},
			},
			{
				Name:  "examples",
				Usage: "Show example tasks",
				Action: func(c *cli.Context) error {
					printExamples(st.out, p)
					return nil
				},
			},
			{
				Name:  "tools",
				Usage: "List the tools available to the agent",
				Action: func(c *cli.Context) error {
					printTools(st.out, p, tools.Registry())
					return nil
				},
			},
		},
	}
}

// flagAfterTask reports whether a flag was written after the task text.
// Flag parsing stops at the first positional argument, so such a flag would
// otherwise be folded into the task.
func flagAfterTask(args []string) bool {
	for _, a := range args[1:] {
		if len(a) > 1 && strings.HasPrefix(a, "-") {
			return true
		}
	}
	return false
}

// loadConfig merges file, environment and flags, then validates.
func loadConfig(c *cli.Context, st streams, p painter) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit("Error: "+err.Error(), 1)
	}
	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
	}
	if c.IsSet("max-iterations") {
		cfg.MaxIterations = c.Int("max-iterations")
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(st.err, p.paint(red, "Error: ANTHROPIC_API_KEY not found"))
			fmt.Fprintln(st.err, p.paint(yellow, "Set it in the environment or pass with --api-key flag"))
			return nil, cli.Exit("", 1)
		}
		return nil, cli.Exit("Error: "+err.Error(), 1)
	}
	return cfg, nil
}

type agent struct {
	runner  *runner.Runner
	console *console
	closer  io.Closer
}

func newAgent(cfg *config.Config, st streams, p painter) (*agent, error) {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	var sink *telemetry.Sink
	if cfg.Telemetry.Enabled {
		sink = telemetry.NewSink(cfg.Telemetry.Dir)
	}

	env := tools.Env{
		Policy:       cfg.Policy,
		HTTPClient:   &http.Client{Timeout: cfg.Tools.HTTPTimeout},
		Shell:        cfg.Tools.Shell,
		ShellTimeout: cfg.Tools.ShellTimeout,
	}
	exec, err := tools.NewExecutor(tools.Registry(), env, tools.WithLogger(logger), tools.WithTelemetry(sink))
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	con := &console{out: st.out, painter: p}
	client := provider.NewAnthropicClient(provider.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	r := runner.New(client, exec,
		runner.WithModel(cfg.Model),
		runner.WithMaxTokens(cfg.MaxTokens),
		runner.WithMaxIterations(cfg.MaxIterations),
		runner.WithModelTimeout(cfg.ModelTimeout),
		runner.WithInputBudget(cfg.InputBudget),
		runner.WithLogger(logger),
		runner.WithTelemetry(sink),
		runner.WithObserver(con),
	)
	return &agent{runner: r, console: con, closer: closer}, nil
}

func (a *agent) process(ctx context.Context, task string) (runner.Outcome, error) {
	a.console.banner(task)
	return a.runner.Run(ctx, task)
}

func runOnce(c *cli.Context, st streams, p painter, task string) error {
	cfg, err := loadConfig(c, st, p)
	if err != nil {
		return err
	}
	a, err := newAgent(cfg, st, p)
	if err != nil {
		return cli.Exit("Error: "+err.Error(), 1)
	}
	defer a.closer.Close()

	out, runErr := a.process(c.Context, task)
	if path := c.String("transcript"); path != "" {
		if err := memory.WriteTranscript(path, out.Transcript); err != nil {
			fmt.Fprintln(st.err, p.paint(yellow, "warning: write transcript: "+err.Error()))
		}
	}
	if runErr != nil {
		fmt.Fprintln(st.err, p.paint(red, "\nError: "+runErr.Error()))
		return cli.Exit("", 1)
	}
	return nil
}

func interactive(c *cli.Context, st streams, p painter) error {
	cfg, err := loadConfig(c, st, p)
	if err != nil {
		return err
	}
	a, err := newAgent(cfg, st, p)
	if err != nil {
		return cli.Exit("Error: "+err.Error(), 1)
	}
	defer a.closer.Close()

	fmt.Fprintln(st.out, p.paint(bold+blue, "\n🤖 Task Automation Agent - Interactive Mode\n"))
	fmt.Fprintln(st.out, p.paint(gray, "Type your task or \"exit\" to quit\n"))

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	lines := readLines(ctx, st.in)
	for {
		fmt.Fprint(st.out, p.paint(cyan, "Task: "))
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(st.out, "\nExiting...")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(st.out)
			return nil
		}

		task := strings.TrimSpace(line)
		if task == "" {
			fmt.Fprintln(st.out, p.paint(red, "Please enter a task"))
			continue
		}
		if strings.EqualFold(task, "exit") || strings.EqualFold(task, "quit") {
			fmt.Fprintln(st.out, p.paint(yellow, "\nGoodbye! 👋"))
			return nil
		}

		if _, err := a.process(ctx, task); err != nil {
			fmt.Fprintln(st.err, p.paint(red, "\nError: "+err.Error()))
		}
		fmt.Fprintln(st.out, "\n"+p.paint(gray, strings.Repeat("─", 60))+"\n")
	}
}

// readLines feeds lines from r into a channel that is closed at EOF. The
// reader goroutine stops early when ctx is cancelled.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func printTools(w io.Writer, p painter, defs []tools.ToolDefinition) {
	fmt.Fprintln(w, p.paint(bold+blue, "\n🔧 Available Tools:\n"))
	for _, d := range defs {
		fmt.Fprintln(w, p.paint(green, d.Name)+"  "+d.Description)
		for _, prm := range d.Params() {
			req := "optional"
			if prm.Required {
				req = "required"
			}
			line := fmt.Sprintf("   %s (%s, %s)", prm.Name, prm.Type, req)
			if len(prm.Enum) > 0 {
				line += " one of " + strings.Join(prm.Enum, "|")
			}
			if prm.Description != "" {
				line += ": " + prm.Description
			}
			fmt.Fprintln(w, p.paint(gray, line))
		}
		fmt.Fprintln(w)
	}
}
