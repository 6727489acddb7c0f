package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/pkg/samples"
)

// samplesCommand lists the named sample trees.
func (c *CLI) samplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the named sample trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(samples.Names()))
			for _, name := range samples.Names() {
				t := samples.MustGet(name)
				rows = append(rows, []string{
					name,
					strconv.Itoa(t.Len()),
					strconv.FormatUint(t.CountSubtrees(), 10),
				})
			}
			printTable(c.out, []string{"sample", "nodes", "ideals"}, rows)
			return nil
		},
	}
}
