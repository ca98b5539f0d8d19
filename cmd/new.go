package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackmott/inkwell/internal/content"
	"github.com/jackmott/inkwell/internal/scaffolding"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new post",
	Long: `Create a post file named for today's date and the slugified title, with
front matter filled in and ready to edit.

Examples:
  inkwell new "Why ECS Works"
  inkwell new "Cache Lines" --categories "performance,gamedev"
  inkwell new "Older Post" --date 2024-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var (
	newCategories []string
	newDate       string
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringSliceVarP(&newCategories, "categories", "c", nil, "Comma-separated categories")
	newCmd.Flags().StringVar(&newDate, "date", "", "Post date (YYYY-MM-DD, default today)")
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	var date time.Time
	if newDate != "" {
		date, err = content.ParseDate(newDate)
		if err != nil {
			return fmt.Errorf("invalid --date value %q: %w", newDate, err)
		}
	}

	dir := "_posts"
	if len(cfg.Content.PostDirs) > 0 {
		dir = cfg.Content.PostDirs[0]
	}

	generator := scaffolding.NewGenerator()
	path, err := generator.NewPost(scaffolding.PostOptions{
		Title:      args[0],
		Categories: newCategories,
		Date:       date,
		Dir:        dir,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
