// Command toy runs Toy scripts and the interactive Toy prompt.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/toylang/toy/pkg/config"
	"github.com/toylang/toy/pkg/help"
	"github.com/toylang/toy/pkg/runtime"
)

const usage = "Usage: toy [script]"

type options struct {
	configPath string
	debugParse bool
	json       bool
	positional []string
	help       bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, usage)
		return runtime.ExitIOError
	}
	if opts.help {
		fmt.Fprintln(stdout, usage)
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, help.QUICKREF)
		return runtime.ExitOK
	}
	if len(opts.positional) > 1 {
		fmt.Fprintln(stdout, usage)
		return runtime.ExitOK
	}

	cwd, _ := os.Getwd()
	cfg, err := config.Load(opts.configPath, cwd)
	if err != nil {
		fmt.Fprintf(stderr, "error loading config: %s\n", err)
		return runtime.ExitIOError
	}
	if opts.debugParse {
		cfg.DebugParse = true
	}
	if opts.json {
		cfg.Diagnostics = "json"
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	if cfg.Path != "" {
		logger.Debug("loaded config", slog.String("path", cfg.Path))
	}

	rtOpts := []runtime.Option{
		runtime.WithOutput(stdout),
		runtime.WithLogger(logger),
		runtime.WithBudget(cfg.EvalBudget()),
	}
	if cfg.DebugParse {
		rtOpts = append(rtOpts, runtime.WithDebugParse(stderr))
	}
	rt := runtime.New(rtOpts...)

	if len(opts.positional) == 1 {
		return runFile(rt, opts.positional[0], cfg.JSONDiagnostics(), stdin, stderr)
	}
	return runPrompt(rt, cfg, stdin, stdout, stderr)
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug-parse":
			opts.debugParse = true
		case "--json":
			opts.json = true
		case "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--config requires a path")
			}
			i++
			opts.configPath = args[i]
		case "-h", "--help":
			opts.help = true
		default:
			if strings.HasPrefix(args[i], "-") && args[i] != "-" {
				return nil, fmt.Errorf("unknown flag: %s", args[i])
			}
			opts.positional = append(opts.positional, args[i])
		}
	}
	return opts, nil
}

func runFile(rt *runtime.Runtime, path string, asJSON bool, stdin io.Reader, stderr io.Writer) int {
	source, err := readSource(path, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Could not read file '%s': %s\n", path, err)
		return runtime.ExitIOError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rt.Run(ctx, source); err != nil {
		fmt.Fprintln(stderr, runtime.FormatError(err, asJSON))
		return runtime.ExitCode(err)
	}
	return runtime.ExitOK
}

func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// prompter reads one line after showing a prompt. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// scanPrompter reads lines from a non-terminal input such as a pipe.
type scanPrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

func (p *scanPrompter) AppendHistory(string) {}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runPrompt reads one line at a time and runs each against the same
// runtime, so definitions persist between lines. Line editing and history
// are only used when stdin is a terminal.
func runPrompt(rt *runtime.Runtime, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	if !isTerminal(stdin) {
		return repl(rt, cfg, &scanPrompter{sc: bufio.NewScanner(stdin), out: stdout}, stdout, stderr)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath := expandHome(cfg.History); histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}
	return repl(rt, cfg, ln, stdout, stderr)
}

func repl(rt *runtime.Runtime, cfg *config.Config, in prompter, stdout, stderr io.Writer) int {
	for {
		line, err := in.Prompt(cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// EOF or a closed terminal
			fmt.Fprintln(stdout)
			return runtime.ExitOK
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(trimmed, ":") {
			if replCommand(trimmed, stdout, stderr) {
				return runtime.ExitOK
			}
			continue
		}

		// Ctrl+C during a run cancels that run only.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = rt.Run(ctx, line)
		stop()
		if err != nil {
			fmt.Fprintln(stderr, runtime.FormatError(err, cfg.JSONDiagnostics()))
		}
	}
}

// replCommand handles a ':' command and reports whether the prompt should exit.
func replCommand(cmd string, stdout, stderr io.Writer) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	switch name {
	case ":quit", ":q":
		return true
	case ":help", ":h":
		arg = strings.TrimSpace(arg)
		switch arg {
		case "":
			fmt.Fprint(stdout, help.QUICKREF)
		case "keywords":
			fmt.Fprint(stdout, help.KeywordIndex())
		default:
			_, content, err := help.MatchTopic(arg)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return false
			}
			fmt.Fprint(stdout, content)
		}
	default:
		fmt.Fprintln(stderr, "Unknown command. Type :help for help or :quit to exit.")
	}
	return false
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
