package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/modules/explain/view"
	"github.com/yungbote/simple-explain/internal/platform/envutil"
)

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "explain",
		Short:         "Complex topics, explained simply",
		Long:          "explain asks a simple-explain server for a lesson or essay on any topic and keeps a list of recent searches.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, o, func(ctx context.Context, s *session) error {
				return interactive(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.server, "server", envutil.String("SIMPLE_EXPLAIN_URL", "http://localhost:8080"), "simple-explain server URL")
	f.StringVar(&o.clientID, "client-id", envutil.String("SIMPLE_EXPLAIN_CLIENT_ID", ""), "client id for server-side history (8-64 of A-Z a-z 0-9 _ -)")
	f.StringVarP(&o.lang, "lang", "l", envutil.String("SIMPLE_EXPLAIN_LANG", "en"), "language: en or vi")
	f.StringVar(&o.variant, "variant", string(explain.VariantLesson), "lesson or essay; must match the server")
	f.StringVar(&o.level, "level", string(explain.LevelIntermediate), "essay level: beginner, intermediate or advanced")
	f.DurationVar(&o.timeout, "timeout", 90*time.Second, "per-request timeout")
	f.StringVar(&o.history, "history", historyLocal, "where recent searches live: local or server; server history persists across runs only with a fixed --client-id")
	f.StringVar(&o.store, "store", "file", "local history backend: file or sqlite")
	f.StringVar(&o.dataDir, "data-dir", defaultDataDir(), "directory for local history")
	f.StringVarP(&o.outDir, "out", "o", ".", "directory for exported files")
	f.StringVar(&o.logMode, "log-mode", "test", "log mode: development, production or test")
	f.BoolVar(&o.allLevels, "all", false, "show every lesson level at once")

	root.AddCommand(
		newAskCmd(o),
		newRecentCmd(o),
		newOpenCmd(o),
		newExportCmd(o),
	)
	return root
}

func withSession(cmd *cobra.Command, o *options, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx, o, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func newAskCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <topic...>",
		Short: "Explain a topic and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, o, func(ctx context.Context, s *session) error {
				m, err := s.generate(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.renderer.Article(m))
				return nil
			})
		},
	}
}

func newRecentCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, o, func(ctx context.Context, s *session) error {
				fmt.Fprintln(cmd.OutOrStdout(), s.renderer.Recent(s.ctrl.Model().Recent))
				return nil
			})
		},
	}
}

func newOpenCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <n>",
		Short: "Show recent search n, regenerating it only when nothing was cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, o, func(ctx context.Context, s *session) error {
				m, err := openRecent(ctx, s, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.renderer.Article(m))
				return nil
			})
		},
	}
}

func newExportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <n>",
		Short: "Save recent search n as JSON (lesson) or text (essay)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, o, func(ctx context.Context, s *session) error {
				idx, err := parsePosition(args[0], len(s.ctrl.Model().Recent))
				if err != nil {
					return err
				}
				s.ctrl.Dispatch(ctx, view.Export{Index: idx})
				return nil
			})
		},
	}
}

func openRecent(ctx context.Context, s *session, arg string) (view.Model, error) {
	idx, err := parsePosition(arg, len(s.ctrl.Model().Recent))
	if err != nil {
		return view.Model{}, err
	}
	m := s.ctrl.Dispatch(ctx, view.OpenRecent{Index: idx})
	if m.State == view.StateLoading {
		s.renderer.Loading()
		m = s.await(ctx)
	}
	if m.State != view.StateResult {
		return m, fmt.Errorf("generation failed")
	}
	return m, nil
}

const interactiveHelp = `Type a topic and press Enter.
  :recent            list recent searches
  :open <n>          open recent search n
  :export <n>        export recent search n
  :level <name>      essay level (beginner, intermediate, advanced)
  :quit              exit
On a result: n next level, 1-3 pick level, f font size, p print, s new topic.`

// interactive drives the controller from line input until EOF or :quit.
func interactive(ctx context.Context, s *session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, s.renderer.Header())
	fmt.Fprintln(out, interactiveHelp)
	fmt.Fprintln(out, s.renderer.Recent(s.ctrl.Model().Recent))

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		m := s.ctrl.Model()
		if m.State == view.StateResult {
			fmt.Fprint(out, "[n/1-3/f/p/s] > ")
		} else {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == ":quit" || line == ":q" {
			return nil
		}
		if m.State == view.StateResult {
			resultCommand(ctx, s, out, line)
			continue
		}
		inputCommand(ctx, s, out, line)
	}
}

func inputCommand(ctx context.Context, s *session, out io.Writer, line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case ":recent":
		fmt.Fprintln(out, s.renderer.Recent(s.ctrl.Model().Recent))
	case ":open":
		m, err := openRecent(ctx, s, arg)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			return
		}
		fmt.Fprintln(out, s.renderer.Article(m))
	case ":export":
		idx, err := parsePosition(arg, len(s.ctrl.Model().Recent))
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			return
		}
		s.ctrl.Dispatch(ctx, view.Export{Index: idx})
	case ":level":
		s.ctrl.Dispatch(ctx, view.LevelChanged{Level: explain.NormalizeLevel(arg)})
	case ":help":
		fmt.Fprintln(out, interactiveHelp)
	default:
		m, err := s.generate(ctx, line)
		if err != nil {
			return
		}
		fmt.Fprintln(out, s.renderer.Article(m))
	}
}

func resultCommand(ctx context.Context, s *session, out io.Writer, line string) {
	var m view.Model
	switch line {
	case "n", "next":
		m = s.ctrl.Dispatch(ctx, view.NextLevel{})
	case "1", "2", "3":
		i := int(line[0] - '1')
		m = s.ctrl.Dispatch(ctx, view.SelectLevel{Level: explain.LessonLevels[i]})
	case "f", "font":
		m = s.ctrl.Dispatch(ctx, view.CycleFontSize{})
	case "p", "print":
		s.ctrl.Dispatch(ctx, view.Print{})
		return
	case "s", "new", ":new":
		s.ctrl.Dispatch(ctx, view.StartOver{})
		fmt.Fprintln(out, s.renderer.Recent(s.ctrl.Model().Recent))
		return
	default:
		fmt.Fprintln(out, interactiveHelp)
		return
	}
	fmt.Fprintln(out, s.renderer.Article(m))
}
