// Package main is a terminal front end for the ElderEase chat.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"elderease/internal/apiclient"
	"elderease/internal/localstore"
	"elderease/internal/model"
	"elderease/internal/widget"
	"elderease/internal/widget/terminal"
	"elderease/pkg/log"

	"github.com/spf13/cobra"
)

type options struct {
	server   string
	dataDir  string
	lang     string
	ttsCmd   string
	logLevel string
	noColor  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "elderease",
		Short: "Chat with ElderEase, the tech helper for seniors",
		Long: "Chat with ElderEase from a terminal. Type a question and press Enter.\n" +
			"Type /help to see the other commands.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	home, _ := os.UserHomeDir()
	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:3001", "backend base URL")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", filepath.Join(home, ".elderease"), "directory for local settings")
	cmd.Flags().StringVar(&opts.lang, "lang", "en", "starting language: en or hi")
	cmd.Flags().StringVar(&opts.ttsCmd, "tts-cmd", "", "text-to-speech command, e.g. \"espeak-ng -v {lang} --stdin\"")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colours")
	return cmd
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	log.Init(opts.logLevel, "console", "")
	defer log.Sync()

	if opts.lang != "en" && opts.lang != "hi" {
		return fmt.Errorf("unsupported language %q, use en or hi", opts.lang)
	}

	store, err := localstore.Open(opts.dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	var synthesizer widget.Synthesizer
	if opts.ttsCmd != "" {
		s, err := terminal.NewCommandSynthesizer(opts.ttsCmd)
		if err != nil {
			return err
		}
		synthesizer = s
	}

	controller, err := widget.NewController(widget.Options{
		Backend:     apiclient.New(opts.server),
		Renderer:    terminal.NewRenderer(out, !opts.noColor),
		Store:       store,
		Synthesizer: synthesizer,
		Locale:      model.ParseLocale(opts.lang),
	})
	if err != nil {
		return err
	}
	defer controller.Close()

	controller.Start(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := dispatch(ctx, controller, out, line); quit {
				return nil
			}
		}
	}
}

// command is one parsed input line.
type command struct {
	name string
	arg  string
}

// parseCommand splits "/quick 2" into its name and argument. Lines without a leading
// slash are messages and have an empty name.
func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{arg: line}
	}
	name, arg, _ := strings.Cut(line[1:], " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}
}

func dispatch(ctx context.Context, c *widget.Controller, out io.Writer, line string) bool {
	cmd := parseCommand(line)
	switch cmd.name {
	case "":
		c.Submit(ctx, cmd.arg)
	case "voice":
		c.ToggleVoice(ctx)
	case "lang":
		c.ToggleLanguage(ctx)
	case "clear":
		c.Clear(ctx)
	case "theme":
		c.ToggleTheme()
	case "quick":
		n, err := strconv.Atoi(cmd.arg)
		if err != nil {
			fmt.Fprintln(out, "usage: /quick <number>")
			return false
		}
		if err := c.QuickAction(ctx, n-1); err != nil {
			fmt.Fprintln(out, err)
		}
	case "help":
		fmt.Fprint(out, helpText)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(out, "unknown command /%s, type /help\n", cmd.name)
	}
	return false
}

const helpText = `Commands:
  <text>      ask a question
  /quick <n>  ask quick-help question n
  /voice      start or stop voice input
  /lang       switch between English and Hindi
  /clear      delete the conversation
  /theme      switch between light and dark mode
  /quit       leave
`
