package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/natureopt/internal/bench"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the built-in objective functions",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tOBJECTIVES\tDIM\tDESCRIPTION")
		fmt.Fprintln(w, "----\t----------\t---\t-----------")
		for _, name := range bench.Names() {
			f, _ := bench.Describe(name)
			dim := "any"
			if f.FixedDim > 0 {
				dim = fmt.Sprintf("%d", f.FixedDim)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.Objectives, dim, f.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
