package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/github/skillscan/pkg/analyzer"
)

// NewNameCommand creates the name command, which prints the display name
// of a skill file: the frontmatter name, else the first heading, else the
// file name itself.
func NewNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "name [file]",
		Short: "Print the display name of a skill file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			name := analyzer.ExtractName(string(content))
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			fmt.Println(name)
			return nil
		},
	}
}
