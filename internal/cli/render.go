package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/render/nodelink"
	"github.com/matzehuels/algoviz/pkg/scenario"
	"github.com/matzehuels/algoviz/pkg/structure"
)

// Render formats. Frames are svg, pdf or png; dot and nodelink draw the
// structure with Graphviz instead of the animation layout.
const (
	formatDOT      = "dot"
	formatNodelink = "nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file, "-" for stdout
	format   string  // svg, pdf, png, dot or nodelink
	step     int     // cursor position; negative renders the end
	detailed bool    // state and target in nodelink labels
	width    int     // viewport width override
	height   int     // viewport height override
	scale    float64 // png zoom factor
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: render.FormatSVG, step: -1, scale: 1}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a scenario frame",
		Example: `  algoviz render demo.json --step 12 -o frame.svg
  algoviz render demo.json --format nodelink --detailed -o tree.svg
  algoviz render demo.json --format png --scale 2 -o frame.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			view := cfg.Viewport.Rect()
			if opts.width > 0 {
				view.W = opts.width
			}
			if opts.height > 0 {
				view.H = opts.height
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			data, err := renderDocument(cmd.Context(), doc, view, cfg.TreeOptions(), &opts)
			if err != nil {
				return err
			}
			if err := writeOutput(opts.output, cmd.OutOrStdout(), data); err != nil {
				return err
			}
			if opts.output != "" && opts.output != "-" {
				prog.done("Rendered " + opts.format)
				printFile(opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, pdf, png, dot, nodelink")
	cmd.Flags().IntVarP(&opts.step, "step", "s", opts.step, "cursor position to render (default: end)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node state and target (dot, nodelink)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width (default: from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height (default: from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "zoom factor for png")

	return cmd
}

// renderDocument produces the requested view of doc at opts.step.
func renderDocument(ctx context.Context, doc *scenario.Document, view render.Rect, treeOpts []structure.Option, opts *renderOpts) ([]byte, error) {
	switch opts.format {
	case render.FormatSVG, render.FormatPDF, render.FormatPNG:
		svg, err := doc.Frame(opts.step, view, treeOpts...)
		if err != nil {
			return nil, err
		}
		return render.Convert(ctx, svg, opts.format, opts.scale)
	case formatDOT, formatNodelink:
		tree, _, err := doc.At(opts.step, view, treeOpts...)
		if err != nil {
			return nil, err
		}
		out := render.FormatSVG
		if opts.format == formatDOT {
			out = formatDOT
		}
		return nodelink.Render(ctx, tree.Entries(), out, nodelink.Options{Detailed: opts.detailed})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", opts.format)
	}
}
