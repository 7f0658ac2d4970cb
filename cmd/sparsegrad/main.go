// Command sparsegrad evaluates built-in residual problems and reports the
// structure of their sparse Jacobians.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCLI().ExecuteContext(context.Background()))
}
