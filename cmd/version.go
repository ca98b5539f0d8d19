package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackmott/inkwell/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE:  runVersion,
}

var versionDetailed bool

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show full build information")
}

func runVersion(cmd *cobra.Command, args []string) error {
	if versionDetailed {
		fmt.Println(version.GetDetailedVersion())
		return nil
	}
	fmt.Printf("inkwell %s\n", version.GetShortVersion())
	return nil
}
