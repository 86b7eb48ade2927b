package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/spektr-scatter/schema"
)

func (c *CLI) chartsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "charts [chart]",
		Short: "List chart types with their axes and parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := schema.Charts()
			if len(args) == 1 {
				spec, err := schema.Lookup(args[0])
				if err != nil {
					return err
				}
				specs = []schema.ChartSpec{spec}
			}

			if format == formatJSON || format == formatPretty {
				return writeJSON(c.out, specs, format)
			}
			for i, spec := range specs {
				if i > 0 {
					fmt.Fprintln(c.out)
				}
				c.printChart(spec)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, pretty")
	return cmd
}

func (c *CLI) printChart(spec schema.ChartSpec) {
	fmt.Fprintln(c.out, StyleTitle.Render(spec.Name)+StyleDim.Render(" · transform "+spec.Transform))

	axes := make([][]string, len(spec.Axes))
	for i, a := range spec.Axes {
		required := ""
		if a.MinAxisCount > 0 {
			required = fmt.Sprintf("≥ %d", a.MinAxisCount)
		}
		axes[i] = []string{a.Name, a.Type, a.Dimension, required}
	}
	printTable(c.out, []string{"AXIS", "TYPE", "COLUMNS", "REQUIRED"}, axes)
	fmt.Fprintln(c.out)

	params := make([][]string, len(spec.Parameters))
	for i, p := range spec.Parameters {
		desc := p.Description
		if len(p.OptionValues) > 0 {
			desc += StyleDim.Render(" [" + strings.Join(p.OptionValues, "|") + "]")
		}
		params[i] = []string{p.Name, p.ValueType, p.InputWidget(), fmt.Sprintf("%v", p.Default), desc}
	}
	printTable(c.out, []string{"PARAMETER", "TYPE", "WIDGET", "DEFAULT", "DESCRIPTION"}, params)
}
