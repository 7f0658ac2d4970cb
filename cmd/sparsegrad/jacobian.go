package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/sparsegrad/internal/forward"
	"github.com/born-ml/sparsegrad/internal/jacobian"
	"github.com/born-ml/sparsegrad/internal/problems"
	"github.com/born-ml/sparsegrad/internal/sparse"
)

func NewJacobianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jacobian",
		Aliases: []string{"jac"},
		Short:   "Differentiate a built-in residual problem",
		Long:    "Differentiate a built-in residual problem (" + strings.Join(problems.Names(), ", ") + ") and print the structure of its Jacobian",
		Args:    cobra.NoArgs,
		RunE:    jacobianHandler,
	}

	cmd.Flags().String("problem", "poisson", "Residual problem to differentiate")
	cmd.Flags().IntP("n", "n", 10, "Number of unknowns")
	cmd.Flags().Bool("sparsity", false, "Propagate the sparsity pattern only")
	cmd.Flags().Bool("entries", false, "Print every stored entry")

	return cmd
}

func jacobianHandler(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("problem")
	n, _ := cmd.Flags().GetInt("n")
	sparsityOnly, _ := cmd.Flags().GetBool("sparsity")
	entries, _ := cmd.Flags().GetBool("entries")

	if n < 1 {
		return fmt.Errorf("n must be positive, got %d", n)
	}
	p, err := problems.Lookup(name)
	if err != nil {
		return err
	}

	x0 := p.Start(n)
	x := forward.Seed(x0)
	if sparsityOnly {
		x = forward.SeedSparsity(x0)
	}

	jacobian.ResetStats()
	r, err := p.Residual(x)
	if err != nil {
		return err
	}
	var J *sparse.CSR
	if sparsityOnly {
		J = r.Sparsity()
	} else {
		J = r.Gradient()
	}
	stats := jacobian.ReadStats()
	slog.Debug("jacobian evaluated", "problem", p.Name, "kind", r.Kind(), "nnz", J.NNZ())

	rows, cols := J.Dims()
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"PROBLEM", "KIND", "ROWS", "COLS", "NNZ", "FAST", "SLOW", "STRUCTURAL"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.Append([]string{
		p.Name,
		r.Kind().String(),
		strconv.Itoa(rows),
		strconv.Itoa(cols),
		strconv.Itoa(J.NNZ()),
		strconv.FormatInt(stats.FastFMA, 10),
		strconv.FormatInt(stats.SlowFMA, 10),
		strconv.FormatInt(stats.Structural, 10),
	})
	table.Render()

	if entries {
		fmt.Fprintln(cmd.OutOrStdout())
		printEntries(cmd, J)
	}
	return nil
}

func printEntries(cmd *cobra.Command, J *sparse.CSR) {
	var data [][]string
	rows, _ := J.Dims()
	for i := 0; i < rows; i++ {
		idx, vals := J.RowOf(i)
		for k, j := range idx {
			data = append(data, []string{strconv.Itoa(i), strconv.Itoa(j), strconv.FormatFloat(vals[k], 'g', 10, 64)})
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ROW", "COL", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
