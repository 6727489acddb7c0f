package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
)

// countCommand prints the number of ideals without enumerating them.
func (c *CLI) countCommand() *cobra.Command {
	var tf treeFlags
	var at int

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the ideals of a tree",
		Long: `Count the ideals of a tree that contain its root. With --at, count the ideals of the
subtree below a node, the empty one included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, name, err := tf.load(c)
			if err != nil {
				return err
			}
			var n uint64
			if at != 0 {
				if _, ok := t.Positions()[at]; !ok {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown node %d", at)
				}
				n = t.CountSubtreesAt(at)
			} else {
				n = t.CountSubtrees()
			}
			if n == math.MaxUint64 {
				c.Logger.Warn("count saturated", "tree", name)
			}
			fmt.Fprintln(c.out, n)
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().IntVar(&at, "at", 0, "count below this node label instead of the root")
	return cmd
}
