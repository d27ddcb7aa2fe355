// Command jce inspects JCE-encoded data, decoding it as a dynamic
// value tree with no schema and printing the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jce",
		Short: "Inspect JCE-encoded data",
	}
	cmd.AddCommand(newInspectCommand())
	return cmd
}
