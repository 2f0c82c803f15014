package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"chat_cli/api"
	"chat_cli/display"
	"chat_cli/pkg/config"
	"chat_cli/pkg/logging"
	"chat_cli/pkg/version"

	"golang.org/x/term"
)

func main() {
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("config_invalid", "error", err)
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	slog.Info("chat_cli_start",
		"version", version.Summary(),
		"platform", version.Platform(),
		"base_url", cfg.BaseURL,
		"model", cfg.Model)

	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))

	width := 80
	if stdoutTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	client := api.NewClient(cfg.BaseURL, cfg.APIKey)
	renderer := display.NewRenderer(os.Stdout, width, !stdoutTTY)

	var history []api.Message
	if cfg.SystemPrompt != "" {
		history = append(history, api.Message{Role: api.RoleSystem, Content: cfg.SystemPrompt})
	}

	// One-shot: prompt from arguments or piped stdin.
	if prompt := oneShotPrompt(stdinTTY); prompt != "" {
		history = append(history, api.Message{Role: api.RoleUser, Content: prompt})
		if err := streamTurn(client, cfg, renderer, &history); err != nil {
			renderer.Error(err)
			os.Exit(1)
		}
		return
	}

	if !stdinTTY {
		fmt.Fprintln(os.Stderr, "Usage: chat_cli [prompt], or pipe a prompt on stdin")
		os.Exit(2)
	}

	runInteractive(client, cfg, renderer, history)
}

// oneShotPrompt returns the prompt for non-interactive use, or "" when the
// session should be interactive.
func oneShotPrompt(stdinTTY bool) string {
	if len(os.Args) > 1 {
		return strings.TrimSpace(strings.Join(os.Args[1:], " "))
	}
	if !stdinTTY {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Warn("stdin_read_error", "error", err)
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	return ""
}

func runInteractive(client *api.Client, cfg config.Config, renderer *display.Renderer, history []api.Message) {
	renderer.Banner(version.Summary())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		renderer.Prompt()
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		history = append(history, api.Message{Role: api.RoleUser, Content: line})
		if err := streamTurn(client, cfg, renderer, &history); err != nil {
			renderer.Error(err)
			// Drop the failed turn so a retry does not resend it twice.
			history = history[:len(history)-1]
		}
	}
	slog.Info("chat_cli_exit", "history_messages", len(history))
}

// streamTurn sends the conversation, renders fragments as they arrive, and
// appends the collected assistant message to the history.
func streamTurn(client *api.Client, cfg config.Config, renderer *display.Renderer, history *[]api.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.APITimeoutSeconds)*time.Second)
	defer cancel()

	session, err := client.Stream(ctx, api.Request{Model: cfg.Model, Messages: *history})
	if err != nil {
		slog.Error("stream_start_error", "error", err)
		return err
	}
	defer session.Close()

	renderer.Header(api.RoleAssistant, cfg.Model)
	for session.Next() {
		renderer.Fragment(session.Content())
	}
	renderer.Done()

	msg, err := session.Collect()
	if err != nil {
		slog.Error("stream_read_error", "error", err, "partial_length", len(msg.Content))
		return err
	}

	slog.Debug("stream_turn_done", "content_length", len(msg.Content))
	*history = append(*history, msg)
	return nil
}
