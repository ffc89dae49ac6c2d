package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/glotfill/glotfill/internal/osutil"
	"github.com/glotfill/glotfill/internal/translator"
)

var (
	keysQuery string
	keysFlat  bool
)

// KeysCmd inspects the keys of resource files
var KeysCmd = &cobra.Command{
	Use:   "keys <file|glob>...",
	Short: "List the keys of JSON resource files",
	Long: `Inspect i18n resource files without opening an editor.

By default the top-level keys are listed. With --flat every leaf is
printed as a dot-path (nav.header.title). With --query an arbitrary jq
expression runs over the document (powered by gojq).

Globs are supported, including ** (doublestar).

Examples:
  glotfill keys i18n/en/common.json
  glotfill keys --flat "i18n/en/**/*.json"
  glotfill keys --query '.nav.header' i18n/en/common.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		for _, arg := range args {
			matches, err := osutil.Glob(arg)
			if err != nil {
				return fmt.Errorf("bad pattern %s: %w", arg, err)
			}
			files = append(files, matches...)
		}
		if len(files) == 0 {
			return fmt.Errorf("no files match %s", strings.Join(args, " "))
		}

		var code *gojq.Code
		if keysQuery != "" {
			query, err := gojq.Parse(keysQuery)
			if err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}
			code, err = gojq.Compile(query)
			if err != nil {
				return fmt.Errorf("compile error: %w", err)
			}
		}

		showName := len(files) > 1
		for _, file := range files {
			if showName {
				fmt.Printf("== %s ==\n", file)
			}
			if err := inspectFile(file, code); err != nil {
				return err
			}
		}
		return nil
	},
}

func inspectFile(path string, code *gojq.Code) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Query mode decodes with plain encoding/json so gojq sees the
	// value types it expects.
	if code != nil {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
		iter := code.Run(doc)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := v.(error); ok {
				return err
			}
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("cannot encode output: %w", err)
			}
			fmt.Println(string(out))
		}
		return nil
	}

	tree, err := translator.ParseTree(data)
	if err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	if keysFlat {
		for _, leaf := range tree.LeafPaths() {
			fmt.Println(leaf)
		}
		return nil
	}
	for _, key := range tree.Keys() {
		fmt.Println(key)
	}
	return nil
}

func init() {
	KeysCmd.Flags().StringVarP(&keysQuery, "query", "q", "", "Run a jq query over the document instead of listing keys")
	KeysCmd.Flags().BoolVar(&keysFlat, "flat", false, "List flattened dot-paths of every leaf")
}
