// Command pageflow paginates a block-sequence document from JSON and emits
// the resulting layout, either as JSON for a downstream painter or as a
// human-readable page summary.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pageflow/pkg/doc"
	"pageflow/pkg/layout"
	"pageflow/pkg/measure"
)

// document is the on-disk input: layout options plus the flat block
// sequence an external block producer would hand the engine.
type document struct {
	PageSize     doc.Size                                `json:"pageSize"`
	Margins      layout.Margins                          `json:"margins"`
	Columns      doc.Columns                             `json:"columns"`
	Blocks       []*doc.Block                            `json:"blocks"`
	HeaderFooter *doc.MultiSectionHeaderFooterIdentifier `json:"headerFooter,omitempty"`
}

var (
	fontPath  string
	fontSize  float64
	outPath   string
	verbosity bool
)

func main() {
	root := &cobra.Command{
		Use:           "pageflow",
		Short:         "document layout and pagination engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&fontPath, "font", "", "TrueType font used for measurement")
	root.PersistentFlags().Float64Var(&fontSize, "font-size", 12, "font size in points")
	root.PersistentFlags().BoolVarP(&verbosity, "verbose", "v", false, "debug logging")

	layoutCmd := &cobra.Command{
		Use:   "layout <doc.json>",
		Short: "paginate a document and write the layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := run(args[0])
			if err != nil {
				return err
			}
			return writeJSON(l)
		},
	}
	layoutCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	inspectCmd := &cobra.Command{
		Use:   "inspect <doc.json>",
		Short: "paginate a document and print a page summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := run(args[0])
			if err != nil {
				return err
			}
			for _, pg := range l.Pages {
				fmt.Printf("page %d  %gx%g  section %d  fragments %d\n",
					pg.Number, pg.Width, pg.Height, pg.SectionIndex, len(pg.Fragments))
			}
			return nil
		},
	}

	root.AddCommand(layoutCmd, inspectCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pageflow:", err)
		os.Exit(1)
	}
}

func run(path string) (*layout.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ms, err := newMeasurer()
	if err != nil {
		return nil, err
	}

	measures := make([]*doc.Measure, len(d.Blocks))
	colW := columnWidth(d)
	for i, b := range d.Blocks {
		m, err := ms.MeasureBlock(b, colW)
		if err != nil {
			return nil, fmt.Errorf("measure block %d: %w", i, err)
		}
		measures[i] = m
	}

	level := slog.LevelInfo
	if verbosity {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	eng := layout.New(layout.Options{
		PageSize:     d.PageSize,
		Margins:      d.Margins,
		Columns:      d.Columns,
		Remeasure:    ms.Remeasure,
		HeaderFooter: d.HeaderFooter,
		Logger:       logger,
	})
	return eng.LayoutDocument(d.Blocks, measures)
}

// newMeasurer builds a font-backed measurer, or a crude fixed-advance one
// when no font is supplied.
func newMeasurer() (*measure.Measurer, error) {
	if fontPath != "" {
		return measure.NewFontMeasurer(fontPath, fontSize)
	}
	advance := fontSize * 0.6
	metrics := measure.Metrics{Ascent: fontSize * 0.8, Descent: fontSize * 0.25}
	return measure.New(func(s string) float64 {
		return float64(len([]rune(s))) * advance
	}, metrics), nil
}

func columnWidth(d document) float64 {
	// Mirrors the engine's defaults so blocks are measured at the width
	// they will be placed at.
	size := d.PageSize
	if size.Width <= 0 {
		size = doc.Size{Width: 816, Height: 1056}
	}
	m := d.Margins
	if m == (layout.Margins{}) {
		m = layout.Margins{Top: 96, Right: 96, Bottom: 96, Left: 96}
	}
	cols := d.Columns.Normalized()
	w := (size.Width - m.Left - m.Right - cols.Gap*float64(cols.Count-1)) / float64(cols.Count)
	if w < 1 {
		w = 1
	}
	return w
}

func writeJSON(l *layout.Layout) error {
	enc, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	enc = append(enc, '\n')
	if outPath == "" {
		_, err = os.Stdout.Write(enc)
		return err
	}
	return os.WriteFile(outPath, enc, 0o644)
}
