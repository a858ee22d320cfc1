package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/novahq/nova/internal/assistant"
	"github.com/novahq/nova/internal/launcher"
	"github.com/novahq/nova/internal/services/answers"
	"github.com/novahq/nova/internal/services/weather"
	"github.com/novahq/nova/internal/storage"
	"github.com/novahq/nova/internal/sysinfo"
)

var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"chat"},
	Short:   "Start an interactive assistant session",
	RunE:    runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := getStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := localUser(ctx, store, cfg)
	if err != nil {
		return err
	}
	if err := store.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Could not record login", "err", err)
	}

	reader := bufio.NewScanner(os.Stdin)

	dispatcher := assistant.New(store, logger, user.ID, cfg.WakeWord, assistant.Services{
		Weather:  weather.New(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.RequestTimeout),
		Answers:  answers.New(cfg.AnswersBaseURL, cfg.AnswersModel, cfg.RequestTimeout),
		Launcher: launcher.New(),
		System:   sysinfo.New(cfg.ProbeURL, cfg.RequestTimeout),
		Confirm: func(prompt string) bool {
			fmt.Print(prompt + " [y/N] ")
			if !reader.Scan() {
				return false
			}
			answer := strings.ToLower(strings.TrimSpace(reader.Text()))
			return answer == "y" || answer == "yes"
		},
	})

	println(titleStyle.Render("nova") + dimStyle.Render(" - type a command, \"help\" for the list, \"exit\" to leave"))

	for {
		fmt.Print("You: ")
		if !reader.Scan() {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(reader.Text())
		if isExit(line) {
			break
		}

		res := dispatcher.Dispatch(ctx, line)
		printResult(res)
	}

	println(novaStyle.Render("Nova: ") + "Goodbye!")
	return reader.Err()
}

// isExit recognizes the session-ending words, which never reach the
// dispatcher and are never recorded.
func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "bye":
		return true
	}
	return false
}

func printResult(res assistant.Result) {
	prefix := novaStyle.Render("Nova: ")
	switch res.Status {
	case storage.StatusFailure, storage.StatusError:
		println(prefix + failureStyle.Render(res.Response))
	default:
		println(prefix + res.Response)
	}
}
