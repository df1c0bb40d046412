// Package listflags registers flags shared by the read commands.
package listflags

import "github.com/spf13/cobra"

// AddJSONFlag adds the shared --json flag to a read command.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("json", false, "Output as JSON")
		return
	}

	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}
