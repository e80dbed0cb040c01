package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
)

var (
	newType string
	newDir  string
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project file",
	Long: `Creates a new file from a title. The title is turned into a file name by
replacing runs of characters other than letters, digits and dots with "-"
and lowercasing. Integrations start from an empty route list. Without a
name the title and file type are asked for interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := ""
		if len(args) == 1 {
			title = args[0]
		}

		ft := flowdoc.FileTypes[0]
		if newType != "" {
			var ok bool
			if ft, ok = flowdoc.LookupFileType(newType); !ok {
				return fmt.Errorf("unknown file type %q", newType)
			}
		}

		if title == "" {
			var err error
			if newType == "" {
				if ft, err = promptFileType(); err != nil {
					return err
				}
			}
			prompt := promptui.Prompt{
				Label: "Title",
				Validate: func(s string) error {
					if flowdoc.FileName(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				},
			}
			if title, err = prompt.Run(); err != nil {
				return fmt.Errorf("title: %w", err)
			}
		}

		name, code := flowdoc.NewFile(title, ft)
		path := filepath.Join(newDir, name)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.MkdirAll(newDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", newDir, err)
		}
		if err := os.WriteFile(path, code, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

func promptFileType() (flowdoc.FileType, error) {
	items := make([]string, len(flowdoc.FileTypes))
	for i, ft := range flowdoc.FileTypes {
		items[i] = fmt.Sprintf("%s (.%s)", ft.Title, ft.Extension)
	}
	sel := promptui.Select{
		Label: "File type",
		Items: items,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return flowdoc.FileType{}, fmt.Errorf("file type selection: %w", err)
	}
	return flowdoc.FileTypes[idx], nil
}

func init() {
	newCmd.Flags().StringVarP(&newType, "type", "t", "", "file type: INTEGRATION, OPENAPI_JSON, OPENAPI_YAML, CODE or PROPERTIES")
	newCmd.Flags().StringVarP(&newDir, "dir", "d", ".", "directory to create the file in")
	rootCmd.AddCommand(newCmd)
}
