package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sp3clock/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the bundled satellite presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all, err := preset.All()
		if err != nil {
			return err
		}
		if jsonOutput {
			type view struct {
				Name        string   `json:"name"`
				Description string   `json:"description"`
				Satellites  []string `json:"satellites"`
			}
			out := make([]view, 0, len(all))
			for _, p := range all {
				out = append(out, view{p.Name, p.Description, p.Satellites()})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}

		rows := make([][]string, 0, len(all))
		for _, p := range all {
			rows = append(rows, []string{p.Name, p.Description, span(p.Satellites())})
		}
		return writeTable(cmd.OutOrStdout(), []string{"Preset", "Description", "Satellites"}, rows)
	},
}

// span shortens long satellite lists to "first .. last (n)".
func span(ids []string) string {
	if len(ids) <= 4 {
		return strings.Join(ids, " ")
	}
	return fmt.Sprintf("%s .. %s (%d)", ids[0], ids[len(ids)-1], len(ids))
}
