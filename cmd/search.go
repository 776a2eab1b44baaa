package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search symbols by name",
	Example: `  pywtf search Session
  pywtf search --project requests get
  pywtf search --limit 5 dump`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

var (
	searchProject string
	searchLimit   int
	searchJSON    bool
)

func init() {
	searchCmd.Flags().StringVar(&searchProject, "project", "", "search a single project")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max results (default from search.limit)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) {
	b, closeBackend, err := connect()
	if err != nil {
		fatal("failed to open index", err)
	}
	defer closeBackend()

	resp, err := b.Search(context.Background(), searchProject, args[0], searchLimit)
	if err != nil {
		fatal("search failed", err)
	}

	if searchJSON {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(resp.Results) == 0 {
		fmt.Println("no results")
		return
	}

	for i, r := range resp.Results {
		fmt.Printf("%d. %s (%s) [%s]\n", i+1, r.FQName, r.Kind, r.Project)
		if r.Summary != "" {
			fmt.Printf("   %s\n", r.Summary)
		}
	}
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects in the index directory",
	Run:   runProjects,
}

var projectsJSON bool

func init() {
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "output as JSON")
}

func runProjects(cmd *cobra.Command, args []string) {
	b, closeBackend, err := connect()
	if err != nil {
		fatal("failed to open index", err)
	}
	defer closeBackend()

	resp, err := b.Projects(context.Background())
	if err != nil {
		fatal("listing projects failed", err)
	}

	if projectsJSON {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(resp.Projects) == 0 {
		fmt.Println("no projects indexed")
		return
	}

	for _, p := range resp.Projects {
		if !p.Indexed {
			fmt.Printf("  %s\n", p.Name)
			continue
		}
		fmt.Printf("  %s@%s (%d modules, %d symbols)\n", p.Name, p.Version, p.Modules, p.Symbols)
	}
}
