package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/pkg/bench"
)

// benchCommand times repeated enumerations.
func (c *CLI) benchCommand() *cobra.Command {
	var (
		tf      treeFlags
		engine  string
		reps    int
		workers int
		cached  bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the enumeration engines",
		Long: `Run an engine repeatedly over a tree, discarding every ideal, and report the best and
average run time and the time per ideal. With --cached, reports are read from and written to
the configured cache.`,
		Example: `  treeideals bench --sample set_63B --engine both --reps 10
  treeideals bench --sample set_53X --engine pjp-par --workers 8 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if engine == "" {
				engine = c.Config.Engine
			}
			if !cmd.Flags().Changed("reps") {
				reps = c.Config.Reps
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.Config.Workers
			}
			engines, err := parseEngines(engine)
			if err != nil {
				return err
			}
			t, name, err := tf.load(c)
			if err != nil {
				return err
			}
			sample := ""
			if tf.file == "" {
				sample = name
			}

			ctx := cmd.Context()
			var store *bench.Store
			if cached {
				cch := c.newCache(ctx, false)
				defer cch.Close()
				store = bench.NewStore(cch, nil)
				store.SetTTL(c.Config.Cache.TTL.Duration)
			}

			reports := make([]*bench.Report, 0, len(engines))
			for _, e := range engines {
				spin := newSpinner(ctx, c.errOut, fmt.Sprintf("Benchmarking %s on %s...", e, name))
				opts := bench.Options{
					Reps:    reps,
					Workers: workers,
					Sample:  sample,
					OnRep: func(rep int, d time.Duration) {
						spin.SetMessage(fmt.Sprintf("Benchmarking %s on %s... %d/%d", e, name, rep, reps))
					},
				}
				if !asJSON {
					spin.Start()
				}

				var r *bench.Report
				hit := false
				if store != nil {
					r, hit, err = store.RunCached(ctx, e, t, opts)
				} else {
					r, err = bench.Run(ctx, e, t, opts)
				}
				spin.Stop()
				if err != nil {
					return err
				}
				reports = append(reports, r)
				if !asJSON {
					printReport(c, r, hit)
				}
			}

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				if len(reports) == 1 {
					return enc.Encode(reports[0])
				}
				return enc.Encode(reports)
			}
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVarP(&engine, "engine", "e", "", "engine, both or all (default from config)")
	cmd.Flags().IntVarP(&reps, "reps", "r", 0, "repetitions (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (at most 16)")
	cmd.Flags().BoolVar(&cached, "cached", false, "reuse and store reports in the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	_ = cmd.RegisterFlagCompletionFunc("engine", engineCompletion)
	return cmd
}

func printReport(c *CLI, r *bench.Report, cached bool) {
	title := string(r.Engine)
	if cached {
		title += " " + styleCached.Render("(cached)")
	}
	printSection(c.out, title)
	if r.Sample != "" {
		printKeyValue(c.out, "sample", r.Sample)
	}
	printKeyValue(c.out, "nodes", r.Nodes)
	printKeyValue(c.out, "ideals", r.Ideals)
	printKeyValue(c.out, "reps", r.Reps)
	printKeyValue(c.out, "best", r.Best)
	printKeyValue(c.out, "avg", r.Avg)
	printKeyValue(c.out, "best ns/ideal", fmt.Sprintf("%.2f", r.BestPerIdeal))
	printKeyValue(c.out, "avg ns/ideal", fmt.Sprintf("%.2f", r.AvgPerIdeal))
	printKeyValue(c.out, "run id", r.RunID)

	if len(r.WorkerStats) == 0 {
		return
	}
	rows := make([][]string, 0, len(r.WorkerStats))
	for _, w := range r.WorkerStats {
		rows = append(rows, []string{
			strconv.Itoa(w.Worker),
			strconv.FormatUint(w.Ideals, 10),
			w.Duration.String(),
		})
	}
	printTable(c.out, []string{"worker", "ideals", "duration"}, rows)
}
