package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"gijiroku/internal/api"
	"gijiroku/internal/app"
)

func run(ctx context.Context, cmd *cli.Command) error {
	client := api.New(cmd.String("server"))

	program := tea.NewProgram(app.New(client), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "gijiroku",
		Usage:  "Terminal client for browsing, drafting, and sharing meeting minutes",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Aliases:     []string{"s"},
				Usage:       "Base URL of the minutes backend",
				DefaultText: "http://localhost:8000",
				Value:       "http://localhost:8000",
				Sources:     cli.EnvVars("GIJIROKU_SERVER"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
