package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackmott/inkwell/internal/scaffolding"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new site",
	Long: `Create the skeleton of a new site: configuration file, layout templates,
an images directory, and a sample post.

Examples:
  inkwell init                    # Initialize in the current directory
  inkwell init myblog             # Initialize in ./myblog
  inkwell init --title "My Blog"  # Set the site title`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initTitle string
	initForce bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initTitle, "title", "", "Site title")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	generator := scaffolding.NewGenerator()
	if err := generator.InitSite(root, scaffolding.SiteOptions{
		Title: initTitle,
		Force: initForce,
	}); err != nil {
		return err
	}

	fmt.Printf("Initialized new site in %s\n", root)
	fmt.Println("Next steps:")
	fmt.Println("  inkwell build      # Generate the site")
	fmt.Println("  inkwell serve      # Preview with live reload")

	return nil
}
