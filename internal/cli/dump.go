package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/kodaruskey"
	"github.com/matzehuels/treeideals/pkg/partition"
	"github.com/matzehuels/treeideals/pkg/popjumppush"
)

// dumpCommand prints the preprocessed arrays each engine runs on.
func (c *CLI) dumpCommand() *cobra.Command {
	var (
		tf      treeFlags
		workers int
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the prepared engine layouts",
		Long: `Print the tree in input, pre-order and post-order form, the Koda-Ruskey layout
(labels, leftmost children, initial fringe), the Pop-Jump-Push jump table and the
worker plan of the parallel engine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = c.Config.Workers
			}
			t, name, err := tf.load(c)
			if err != nil {
				return err
			}

			printSection(c.out, name)
			printKeyValue(c.out, "parents", t.Parents)
			printKeyValue(c.out, "children", t.Children)
			printKeyValue(c.out, "ideals", t.CountSubtrees())
			pre, post := t.PreOrder(), t.PostOrder()
			printKeyValue(c.out, "pre parents", pre.Parents)
			printKeyValue(c.out, "pre children", pre.Children)
			printKeyValue(c.out, "post parents", post.Parents)
			printKeyValue(c.out, "post children", post.Children)
			printKeyValue(c.out, "post to pre", t.PostToPreOrder())
			left, right := pre.SiblingArrays()
			printKeyValue(c.out, "left siblings", left)
			printKeyValue(c.out, "right siblings", right)

			kr, err := kodaruskey.Prepare(t)
			if err != nil {
				return err
			}
			printSection(c.out, "koda-ruskey")
			printKeyValue(c.out, "labels", kr.Labels())
			printKeyValue(c.out, "left child", indexInts(kr.LeftChild()))
			fl, fr := kr.Fringe()
			printKeyValue(c.out, "fringe left", indexInts(fl))
			printKeyValue(c.out, "fringe right", indexInts(fr))

			pjp, err := popjumppush.Prepare(t)
			if err != nil {
				return err
			}
			printSection(c.out, "pop-jump-push")
			printKeyValue(c.out, "labels", pjp.Labels())
			printKeyValue(c.out, "jump", pjp.Jump())

			printSection(c.out, "pop-jump-push-par")
			plan := partition.Plan(pjp.Jump(), workers)
			printKeyValue(c.out, "workers", len(plan))
			printKeyValue(c.out, "stop index", planColumn(plan, func(w partition.Worker) int { return w.StopIndex }))
			printKeyValue(c.out, "stop value", planColumn(plan, func(w partition.Worker) int { return w.StopValue }))
			for _, w := range plan {
				printKeyValue(c.out, "start "+itoa(w.ID), w.Start)
			}
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers for the plan (default from config)")
	return cmd
}

func indexInts(xs []forest.Index) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}

func planColumn(plan []partition.Worker, col func(partition.Worker) int) []int {
	out := make([]int, len(plan))
	for i, w := range plan {
		out[i] = col(w)
	}
	return out
}
