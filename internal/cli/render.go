package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/render"
)

// renderOptions holds the flags of the render command.
type renderOptions struct {
	tree      treeFlags
	ideal     string
	format    string
	output    string
	title     string
	positions bool
	scale     float64
}

// renderCommand draws a tree with one ideal highlighted.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a tree with an ideal highlighted",
		Long: `Draw a tree as DOT, SVG, PNG or PDF. Nodes of the --ideal set are filled, the others
dashed. PNG and PDF output needs rsvg-convert (librsvg).`,
		Example: `  treeideals render --sample set_7Readme --ideal 1,2,5 -o readme.svg
  treeideals render -f tree.toml --format dot --positions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, name, err := opts.tree.load(c)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), t, name, opts)
		},
	}
	opts.tree.register(cmd)
	cmd.Flags().StringVar(&opts.ideal, "ideal", "", "comma separated labels of the ideal to highlight")
	cmd.Flags().StringVar(&opts.format, "format", "", "dot, svg, png or pdf (default from -o extension, else svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.title, "title", "", "title drawn above the tree")
	cmd.Flags().BoolVar(&opts.positions, "positions", false, "show pre-order and post-order positions")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"dot", "svg", "png", "pdf"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) runRender(ctx context.Context, t forest.Tree, name string, opts renderOptions) error {
	active, err := parseLabels(opts.ideal)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		if err := t.CheckIdeal(active); err != nil {
			return err
		}
	}

	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
		if format == "" {
			format = "svg"
		}
	}

	prog := newProgress(c.Logger)
	dot := render.ToDOT(t, render.Options{Active: active, Title: opts.title, Positions: opts.positions})
	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg", "png", "pdf":
		svg, err := render.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		switch format {
		case "svg":
			data = svg
		case "png":
			data, err = render.ToPNG(ctx, svg, opts.scale)
		case "pdf":
			data, err = render.ToPDF(ctx, svg)
		}
		if err != nil {
			return err
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "render format %q (want dot, svg, png or pdf)", format)
	}

	if opts.output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done("Rendered "+name, "format", format)
	printSuccess(c.out, "Rendered %s", name)
	printFile(c.out, opts.output)
	return nil
}
