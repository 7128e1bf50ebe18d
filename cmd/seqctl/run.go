package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/librescoot/sequential"
	"github.com/librescoot/sequential/binding"
)

const runHelp = `Commands:
  next             move to the following panel
  prev, previous   move to the preceding panel
  goto N           move to panel N (clamped into range)
  state            print the current state
  panels           list the panels
  quit, exit       stop reading stdin

Without commands on the command line they are read from stdin, one per line.`

func newRunCmd(v *viper.Viper) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "run <definition> [command...]",
		Short: "Load a definition and navigate it",
		Long:  runHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), v.GetString("log.level"), v.GetString("log.format"))

			tr, err := newTracing(ctx)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
			defer closeTracing(context.WithoutCancel(ctx), tr, logger)

			def, err := sequential.LoadDefinition(args[0])
			if err != nil {
				return err
			}
			m, err := def.Build(sequential.WithLogger(logger), sequential.WithTracer(tr.Tracer()))
			if err != nil {
				return err
			}

			b := binding.New(m, binding.WithLogger(logger))
			defer b.Close()

			if watch {
				stop, err := watchDefinition(ctx, args[0], b, logger)
				if err != nil {
					return err
				}
				defer stop()
			}

			s := &session{binding: b, out: json.NewEncoder(cmd.OutOrStdout())}
			if len(args) > 1 {
				return s.runScript(ctx, args[1:])
			}
			return s.runReader(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload panels when the definition file changes")
	return cmd
}

// result is one line of output
type result struct {
	Command string               `json:"command"`
	OK      bool                 `json:"ok"`
	Error   string               `json:"error,omitempty"`
	State   *sequential.Snapshot `json:"state,omitempty"`
	Panels  []panelView          `json:"panels,omitempty"`
}

type panelView struct {
	Index    int                `json:"index"`
	ID       sequential.PanelID `json:"id"`
	Title    string             `json:"title,omitempty"`
	Disabled bool               `json:"disabled,omitempty"`
}

type session struct {
	binding *binding.Binding
	out     *json.Encoder
}

// runScript executes commands given as arguments; goto takes the next argument
func (s *session) runScript(ctx context.Context, args []string) error {
	for i := 0; i < len(args); i++ {
		fields := []string{args[i]}
		if args[i] == "goto" && i+1 < len(args) {
			i++
			fields = append(fields, args[i])
		}
		if _, err := s.exec(ctx, fields); err != nil {
			return err
		}
	}
	return nil
}

// runReader executes one command per line until EOF, quit or cancellation
func (s *session) runReader(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		stop, err := s.exec(ctx, fields)
		if err != nil {
			if err := s.out.Encode(result{Command: fields[0], Error: err.Error()}); err != nil {
				return err
			}
			continue
		}
		if stop {
			return nil
		}
	}
	return scanner.Err()
}

func (s *session) exec(ctx context.Context, fields []string) (stop bool, err error) {
	name := strings.ToLower(fields[0])
	res := result{Command: name}

	switch name {
	case "next":
		res.OK = s.binding.Next(ctx)
	case "prev", "previous":
		res.OK = s.binding.Previous(ctx)
	case "goto":
		if len(fields) != 2 {
			return false, fmt.Errorf("goto: expected one index")
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("goto: invalid index %q", fields[1])
		}
		res.OK = s.binding.GoTo(ctx, index)
	case "state":
		res.OK = true
	case "panels":
		res.OK = true
		for i, p := range s.binding.Manager().Config().Panels {
			res.Panels = append(res.Panels, panelView{Index: i, ID: p.ID, Title: p.Title, Disabled: p.Disabled})
		}
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}

	state := s.binding.State()
	res.State = &state
	return false, s.out.Encode(res)
}
