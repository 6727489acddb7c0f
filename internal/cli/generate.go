package cli

import (
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/pkg/enumerate"
	"github.com/matzehuels/treeideals/pkg/ideal"
)

// parseEngines resolves an --engine value. "both" selects the two
// single-threaded engines, "all" every engine.
func parseEngines(name string) ([]enumerate.Engine, error) {
	switch name {
	case "both":
		return []enumerate.Engine{enumerate.KodaRuskey, enumerate.PopJumpPush}, nil
	case "all":
		return enumerate.Engines(), nil
	}
	e, err := enumerate.ParseEngine(name)
	if err != nil {
		return nil, err
	}
	return []enumerate.Engine{e}, nil
}

func engineCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := []string{"both", "all"}
	for _, e := range enumerate.Engines() {
		names = append(names, string(e))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// limitSink passes at most limit ideals to next, shared by all workers.
type limitSink struct {
	next  ideal.Sink
	limit int64
	seen  atomic.Int64
}

func (s *limitSink) Visit(v ideal.View) bool {
	n := s.seen.Add(1)
	if n > s.limit {
		return false
	}
	return s.next.Visit(v) && n < s.limit
}

// generateCommand lists every ideal of a tree.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		tf      treeFlags
		engine  string
		mode    string
		workers int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "List the ideals of a tree",
		Long: `List every ideal of a tree that contains its root, one per line.

Modes:
  vector   activation vector over the engine's node positions
  indices  positions of the active nodes
  labels   labels of the active nodes, sorted

The parallel engine prefixes every line with the id of the worker that found it.`,
		Example: `  treeideals generate --sample set_7Readme --engine kr
  treeideals generate -f tree.yaml --engine pjp-par --workers 4 --mode indices`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if engine == "" {
				engine = c.Config.Engine
			}
			if mode == "" {
				mode = c.Config.Mode
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.Config.Workers
			}
			engines, err := parseEngines(engine)
			if err != nil {
				return err
			}
			m, err := ideal.ParseMode(mode)
			if err != nil {
				return err
			}
			t, name, err := tf.load(c)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			for _, e := range engines {
				if len(engines) > 1 {
					printSection(c.out, string(e))
				}
				w := ideal.NewWriter(c.out, m)
				if e == enumerate.Parallel {
					w.WithWorkerPrefix()
				}
				var sink ideal.Sink = w
				if limit > 0 {
					sink = &limitSink{next: w, limit: int64(limit)}
				}

				prog := newProgress(logger)
				stats, err := enumerate.Run(cmd.Context(), e, t, enumerate.Options{Workers: workers}, enumerate.Shared(sink))
				if err != nil {
					return err
				}
				if err := w.Err(); err != nil {
					return err
				}
				prog.done("Enumerated "+name, "engine", e, "ideals", stats.Ideals)
			}
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVarP(&engine, "engine", "e", "", "koda-ruskey, pop-jump-push, pop-jump-push-par, both or all (default from config)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "output mode: vector, indices or labels (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (at most 16)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many ideals (0 lists all)")
	_ = cmd.RegisterFlagCompletionFunc("engine", engineCompletion)
	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ideal.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
