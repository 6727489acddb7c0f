package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/pkg/partition"
	"github.com/matzehuels/treeideals/pkg/popjumppush"
)

func itoa(i int) string { return strconv.Itoa(i) }

// partitionCommand shows how the parallel engine splits a tree.
func (c *CLI) partitionCommand() *cobra.Command {
	var (
		tf      treeFlags
		workers int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Show the worker plan of the parallel engine",
		Long: `Show how the parallel engine splits a tree: one row per worker with the prefix ideal it
owns, the stack slot and value that end its walk, and its starting stack. The number of
workers is at most 16 and at most half the number of nodes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = c.Config.Workers
			}
			t, name, err := tf.load(c)
			if err != nil {
				return err
			}
			layout, err := popjumppush.Prepare(t)
			if err != nil {
				return err
			}
			plan := partition.Plan(layout.Jump(), workers)

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			printInfo(c.out, "%s: %d nodes, %d of %d requested workers",
				name, t.Len(), len(plan), workers)
			rows := make([][]string, 0, len(plan))
			for _, w := range plan {
				rows = append(rows, []string{
					itoa(w.ID),
					fmt.Sprint(w.Prefix),
					itoa(w.StopIndex),
					itoa(w.StopValue),
					fmt.Sprint(w.Start),
				})
			}
			printTable(c.out, []string{"worker", "prefix", "stop index", "stop value", "start"}, rows)
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "requested workers (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}
