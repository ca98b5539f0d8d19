package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackmott/inkwell/internal/registry"
	"github.com/jackmott/inkwell/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List posts",
	Long: `List every post the scanner finds, newest first.

Examples:
  inkwell list                    # Table of posts
  inkwell list --category rust    # Only posts in a category
  inkwell list --categories       # List categories with post counts
  inkwell list --json             # Machine-readable output
  inkwell list --yaml             # YAML output`,
	RunE: runList,
}

var (
	listCategory   string
	listCategories bool
	listJSON       bool
	listYAML       bool
	listDrafts     bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "Only posts in this category")
	listCmd.Flags().BoolVar(&listCategories, "categories", false, "List categories instead of posts")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output YAML")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include draft posts")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	reg, scanProblems, err := scanPosts(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if scanProblems.Count() > 0 {
		printCollector(scanProblems)
	}

	if listCategories {
		return printCategories(reg)
	}

	var posts []*types.PostInfo
	if listCategory != "" {
		posts = reg.ByCategory(listCategory)
	} else {
		posts = reg.Sorted()
	}

	if !listDrafts {
		kept := posts[:0]
		for _, post := range posts {
			if !post.Draft {
				kept = append(kept, post)
			}
		}
		posts = kept
	}

	if listJSON || listYAML {
		return printPostsEncoded(posts, listYAML)
	}

	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tCATEGORIES\tPERMALINK")
	for _, post := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			post.Date.Format("2006-01-02"),
			post.Title,
			strings.Join(post.Categories, ", "),
			post.Permalink(),
		)
	}
	return w.Flush()
}

func printCategories(reg *registry.PostRegistry) error {
	categories := reg.Categories()
	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPOSTS")
	for _, category := range categories {
		fmt.Fprintf(w, "%s\t%d\n", category, len(reg.ByCategory(category)))
	}
	return w.Flush()
}

func printPostsEncoded(posts []*types.PostInfo, asYAML bool) error {
	type postRecord struct {
		Title      string   `json:"title" yaml:"title"`
		Date       string   `json:"date" yaml:"date"`
		Categories []string `json:"categories" yaml:"categories"`
		Permalink  string   `json:"permalink" yaml:"permalink"`
		Source     string   `json:"source" yaml:"source"`
		Draft      bool     `json:"draft,omitempty" yaml:"draft,omitempty"`
	}

	out := make([]postRecord, 0, len(posts))
	for _, post := range posts {
		out = append(out, postRecord{
			Title:      post.Title,
			Date:       post.Date.Format("2006-01-02"),
			Categories: post.Categories,
			Permalink:  post.Permalink(),
			Source:     post.SourcePath,
			Draft:      post.Draft,
		})
	}

	if asYAML {
		return yaml.NewEncoder(os.Stdout).Encode(out)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
