package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/sparsegrad/internal/envconfig"
	"github.com/born-ml/sparsegrad/internal/funcs"
)

func NewFuncsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funcs",
		Short: "List the differentiable elementwise functions",
		Args:  cobra.NoArgs,
		RunE:  funcsHandler,
	}

	cmd.Flags().Bool("unary", false, "Only list one-argument functions")

	return cmd
}

func funcsHandler(cmd *cobra.Command, args []string) error {
	var list []*funcs.Func
	if unary, _ := cmd.Flags().GetBool("unary"); unary {
		list = funcs.Unary()
	} else {
		for _, name := range funcs.Names() {
			f, err := funcs.Lookup(name)
			if err != nil {
				return err
			}
			list = append(list, f)
		}
	}

	var data [][]string
	for _, f := range list {
		data = append(data, []string{f.Name, strconv.Itoa(f.Arity)})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "ARITY"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func NewEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the environment variables sparsegrad reads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			vars := envconfig.AsMap()
			var data [][]string
			for _, k := range slices.Sorted(maps.Keys(vars)) {
				v := vars[k]
				data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(data)
			table.Render()
		},
	}
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sparsegrad %s\n", version)
		},
	}
}
