package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Short spellings accepted for long flag names. Aliases resolve through
// pflag normalization, so they never appear in usage output.
var flagAliases = map[string]string{
	"desc": "description",
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// shouldUseEditor decides whether a create or update opens $EDITOR:
// --edit forces it, --no-edit skips it, and otherwise it opens only when no
// field flags were given and stdin is a terminal.
func shouldUseEditor(hasFieldFlags, editFlag, noEditFlag, interactive bool) bool {
	if editFlag {
		return true
	}
	if noEditFlag {
		return false
	}
	if hasFieldFlags {
		return false
	}
	return interactive
}

// aliasFlags makes every name in flagAliases resolve to its long form on each
// command, keeping any normalization the command already had.
func aliasFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		flags := cmd.Flags()
		next := flags.GetNormalizeFunc()
		flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
			if long, ok := flagAliases[name]; ok {
				return next(f, long)
			}
			return next(f, name)
		})
	}
}
