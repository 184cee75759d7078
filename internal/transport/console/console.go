// Package console is the interactive terminal surface: a line-oriented
// command loop over the screen state.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/internal/observability"
	"github.com/heartmarshall/solutions-manager/internal/view"
	"github.com/heartmarshall/solutions-manager/pkg/ctxutil"
)

// errQuit ends the command loop.
var errQuit = errors.New("quit")

type statsSource interface {
	Snapshot() ([]observability.Sample, error)
}

// Console runs the command loop.
type Console struct {
	coord  *view.Coordinator
	prompt *Prompter
	stats  statsSource
	render renderer
	out    io.Writer
	log    *slog.Logger
}

// New creates a Console. prompt must be the same Prompter the record store
// uses for delete confirmation.
func New(log *slog.Logger, coord *view.Coordinator, prompt *Prompter, out io.Writer, stats statsSource, useColor bool) *Console {
	return &Console{
		coord:  coord,
		prompt: prompt,
		stats:  stats,
		render: renderer{out: out, pal: newPalette(useColor)},
		out:    out,
		log:    log.With("transport", "console"),
	}
}

// Run resolves the session and processes commands until quit or end of input.
func (c *Console) Run(ctx context.Context) error {
	c.coord.Start(ctx)
	c.show()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := c.prompt.ReadLine(c.promptText())
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		if err := c.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(c.out, "Error:", domain.Message(err))
		}
	}
}

// Exec runs one command line against a command tree built for the current
// screen.
func (c *Console) Exec(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	ctx = ctxutil.WithCommandID(ctx, ctxutil.NewCommandID())
	screen := c.coord.Screen()
	if screen.Kind == view.ScreenMain {
		ctx = ctxutil.WithUserID(ctx, screen.Identity.ID)
	}

	root := c.rootCmd(screen.Kind)
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.out)

	c.log.DebugContext(ctx, "command",
		slog.String("command_id", ctxutil.CommandIDFromCtx(ctx)),
		slog.String("name", args[0]),
		slog.String("screen", string(screen.Kind)),
	)
	return root.ExecuteContext(ctx)
}

func (c *Console) promptText() string {
	s := c.coord.Screen()
	if s.Kind == view.ScreenMain {
		return "solutions> "
	}
	if s.AuthMode == view.ModeSignUp {
		return "signup> "
	}
	return "signin> "
}

// show renders the whole current screen.
func (c *Console) show() {
	s := c.coord.Screen()
	if s.Kind == view.ScreenMain {
		c.render.mainScreen(s)
		return
	}
	c.render.authScreen(s)
}
