package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pep263/internal/tui"
)

// colorModes contains valid --color values for shell completion.
var colorModes = []string{string(tui.ColorAuto), string(tui.ColorAlways), string(tui.ColorNever)}

// commonEncodings are offered for --append. Any name the codec registry
// knows is accepted; these are the ones people usually mean.
var commonEncodings = []string{"utf-8", "latin-1", "ascii", "cp1252", "iso-8859-15", "utf-16"}

func completeFrom(values []string, toComplete string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, toComplete) {
			matches = append(matches, v)
		}
	}
	return matches
}

// completeColorModes provides shell completion for --color.
func completeColorModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFrom(colorModes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeEncodings provides shell completion for --append.
func completeEncodings(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFrom(commonEncodings, strings.ToLower(toComplete)), cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}
