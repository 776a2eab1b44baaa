package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <project/module/symbol>",
	Short: "Show the documentation of a symbol",
	Example: `  pywtf resolve requests/requests.sessions/Session
  pywtf resolve pydoc://attrs/attr/Factory
  pywtf resolve --json click/click.core/Context.invoke`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

var resolveJSON bool

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output as JSON")
}

// splitSymbolPath splits project/module/symbol, with or without the
// pydoc:// scheme. Module names are dotted, so the symbol keeps any further
// slashes.
func splitSymbolPath(arg string) (project, module, symbol string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(arg, "pydoc://"), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid symbol path %q: need project/module/symbol", arg)
	}
	return parts[0], parts[1], parts[2], nil
}

func runResolve(cmd *cobra.Command, args []string) {
	project, module, symbol, err := splitSymbolPath(args[0])
	if err != nil {
		fatal("bad argument", err)
	}

	b, closeBackend, err := connect()
	if err != nil {
		fatal("failed to open index", err)
	}
	defer closeBackend()

	resp, err := b.Symbol(context.Background(), project, module, symbol)
	if err != nil {
		fatal("resolve failed", err)
	}

	if resolveJSON {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		return
	}
	fmt.Print(resp.Markdown)
}
