package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	treeio "github.com/matzehuels/treeideals/pkg/io"
	"github.com/matzehuels/treeideals/pkg/samples"
)

const defaultSample = "set_7Readme"

// treeFlags selects the input tree of a command.
type treeFlags struct {
	sample string
	file   string
	order  string
}

// register adds --sample, --file and --order to cmd.
func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.sample, "sample", "s", "", "named sample tree (default "+defaultSample+")")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "tree file (.json, .toml, .yaml)")
	cmd.Flags().StringVar(&f.order, "order", "", "child order: input, largest or smallest (default from config)")
	cmd.MarkFlagsMutuallyExclusive("sample", "file")
	_ = cmd.RegisterFlagCompletionFunc("sample", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return samples.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("order", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"input", "largest", "smallest"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// load returns the selected tree, arranged per --order or the configured
// order, and a display name.
func (f *treeFlags) load(c *CLI) (forest.Tree, string, error) {
	var t forest.Tree
	var name string
	var err error
	switch {
	case f.file != "":
		name = f.file
		t, err = treeio.ImportFile(f.file)
	default:
		name = f.sample
		if name == "" {
			name = defaultSample
		}
		if err = apperrors.ValidateSampleName(name); err == nil {
			t, err = samples.Get(name)
		}
	}
	if err != nil {
		return forest.Tree{}, "", err
	}

	order := f.order
	if order == "" {
		order = c.Config.Order
	}
	switch order {
	case "input":
	case "largest":
		t = t.ArrangeLargestSubtrees(forest.LargestFirst)
	case "smallest":
		t = t.ArrangeLargestSubtrees(forest.SmallestFirst)
	default:
		return forest.Tree{}, "", apperrors.New(apperrors.ErrCodeInvalidInput,
			"order %q (want input, largest or smallest)", order)
	}
	c.Logger.Debug("tree loaded", "tree", name, "nodes", t.Len(), "order", order)
	return t, name, nil
}

// parseLabels parses a comma separated label list such as "1,2,5".
func parseLabels(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "label %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
