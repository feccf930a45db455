package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"
	"booklog-backend/infrastructure/di"
	"booklog-backend/infrastructure/rendering"

	"github.com/spf13/cobra"
)

type renderOptions struct {
	owner  string
	format string
	out    string
	mode   string
	width  int
	height int
	title  string
}

func renderCmd() *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a profile's knowledge graph to SVG, PNG or a print document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.owner == "" {
				return fmt.Errorf("--owner is required")
			}
			p, err := layout.ParsePresentation(opts.mode, opts.width, opts.height)
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(c *di.Container) error {
				frame, err := c.Graphs.Snapshot(cmd.Context(), opts.owner, p, layout.IdentityViewport())
				if err != nil {
					return err
				}

				var buf bytes.Buffer
				if err := writeFrame(&buf, opts, *frame); err != nil {
					return err
				}
				if opts.out == "" || opts.out == "-" {
					_, err = cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}
				if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
					return err
				}
				good.Fprintf(cmd.ErrOrStderr(), "✓ %s: %d nodes, %d edges\n", opts.out, len(frame.Nodes), len(frame.Edges))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "profile name whose books are drawn")
	cmd.Flags().StringVar(&opts.format, "format", "svg", "svg, png or print")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (stdout when empty)")
	cmd.Flags().StringVar(&opts.mode, "mode", "inline", "inline or fullscreen")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height (fullscreen only)")
	cmd.Flags().StringVar(&opts.title, "title", knowledge.RootNodeLabel, "print document title")
	return cmd
}

func writeFrame(w io.Writer, opts renderOptions, frame layout.Frame) error {
	switch opts.format {
	case "svg":
		return rendering.RenderSVG(w, frame)
	case "png":
		return rendering.RenderPNG(w, frame)
	case "print":
		return rendering.RenderPrintDocument(w, opts.title, frame)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}
