// Command apply runs the translator-application wizard in the terminal.
package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"mangapanel/internal/wizard"
)

func main() {
	logger := charmlog.New(os.Stderr)

	app := &cli.Command{
		Name:  "apply",
		Usage: "Çevirmen başvuru sihirbazı",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api",
				Usage: "Panel API base URL",
				Value: "http://localhost:8080",
			},
			&cli.StringFlag{
				Name:    "content",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML wizard content file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			content, err := wizard.LoadContent(cmd.String("content"))
			if err != nil {
				return err
			}

			submitter := wizard.NewSubmitter(cmd.String("api"))
			model := wizard.NewModel(content, submitter)

			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("wizard failed", "err", err)
	}
}
