// Command netviz is a command-line front end over pkg/netviz: load a graph
// from YAML, lay it out, and emit SVG, a sheet breakdown, or a merged graph.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/icons"
	"github.com/lspecian/netviz/internal/layout"
	"github.com/lspecian/netviz/internal/render/svg"
	"github.com/lspecian/netviz/pkg/netviz"
)

var (
	inputPath  string
	outputPath string
	themeFlag  string
	legendFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "netviz",
		Short: "Network topology layout and SVG rendering",
		Long:  `A command-line tool for laying out and rendering declarative network topology graphs.`,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a graph and render it to SVG",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input graph YAML file (required)")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output SVG file (default: stdout)")
	renderCmd.Flags().StringVar(&themeFlag, "theme", "", "override theme (light, dark)")
	renderCmd.Flags().BoolVar(&legendFlag, "legend", false, "render the bandwidth legend")
	renderCmd.MarkFlagRequired("input")

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out a graph and emit the raw layout result as JSON",
		RunE:  runLayout,
	}
	layoutCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input graph YAML file (required)")
	layoutCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output JSON file (default: stdout)")
	layoutCmd.MarkFlagRequired("input")

	sheetsCmd := &cobra.Command{
		Use:   "sheets",
		Short: "Build and render the hierarchical sheet breakdown of a graph",
		RunE:  runSheets,
	}
	sheetsCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input graph YAML file (required)")
	sheetsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output directory for one SVG per sheet (default: every sheet's SVG to stdout, each under a header line)")
	sheetsCmd.MarkFlagRequired("input")

	var mergeInputs []string
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge two or more graph YAML files into one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(mergeInputs, outputPath)
		},
	}
	mergeCmd.Flags().StringSliceVarP(&mergeInputs, "input", "i", nil, "input graph YAML files (repeatable, first is base)")
	mergeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output merged graph YAML file (default: stdout)")
	mergeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(renderCmd, layoutCmd, sheetsCmd, mergeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var g graph.Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	g.Links = graph.EnsureLinkIDs(g.Links)
	return &g, nil
}

func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(inputPath)
	if err != nil {
		return err
	}
	if themeFlag != "" {
		g.Theme = graph.Theme(themeFlag)
	}

	ctx := context.Background()
	result, err := netviz.Layout(ctx, g, layout.DefaultOptions())
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	opts := svg.Options{Icons: icons.Default(), Legend: svg.LegendOptions{Enabled: legendFlag, Position: svg.LegendTopRight}}
	out, err := netviz.RenderSVG(g, result, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return writeOutput(outputPath, out)
}

func runLayout(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(inputPath)
	if err != nil {
		return err
	}

	result, err := netviz.Layout(context.Background(), g, layout.DefaultOptions())
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout result: %w", err)
	}
	return writeOutput(outputPath, string(out))
}

func runSheets(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(inputPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine := layout.NewEngine(layout.DefaultOptions())
	root, err := engine.Layout(ctx, g)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	sheetMap, err := netviz.BuildHierarchicalSheets(ctx, g, root, engine)
	if err != nil {
		return fmt.Errorf("build sheets: %w", err)
	}

	opts := svg.Options{Icons: icons.Default()}
	for id, sd := range sheetMap {
		out, renderErr := netviz.RenderSVG(sd.Graph, sd.Layout, opts)
		if renderErr != nil {
			return renderErr
		}
		if outputPath == "" {
			fmt.Printf("# sheet %s (%d nodes)\n%s\n", id, len(sd.Graph.Nodes), out)
			continue
		}
		if err := os.MkdirAll(outputPath, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", outputPath, err)
		}
		if err := os.WriteFile(fmt.Sprintf("%s/%s.svg", outputPath, id), []byte(out), 0o644); err != nil {
			return fmt.Errorf("write sheet %s: %w", id, err)
		}
	}
	return nil
}

func runMerge(inputs []string, output string) error {
	if len(inputs) < 2 {
		return fmt.Errorf("merge requires at least two --input files")
	}
	sources := make([]*graph.Graph, 0, len(inputs))
	sourceIDs := make([]string, 0, len(inputs))
	for _, p := range inputs {
		g, err := loadGraph(p)
		if err != nil {
			return err
		}
		sources = append(sources, g)
		sourceIDs = append(sourceIDs, p)
	}

	result, err := netviz.MergeGraphs(sources, sourceIDs, graph.MergeOptions{Legacy: graph.LegacyPrefixSource})
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	out, err := yaml.Marshal(result.Graph)
	if err != nil {
		return fmt.Errorf("marshal merged graph: %w", err)
	}
	return writeOutput(output, string(out))
}
