package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rules", Short: "Inspect available rules"}
	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := rules.Builtin(rules.DefaultThresholds())
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range reg.Rules() {
				m := r.Meta()
				if category != "" && m.Category != model.Category(category) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Category, m.Severity, m.Title)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&category, "category", "", "Only list one category (vulnerability|optimization|quality)")
	cmd.AddCommand(list)
	return cmd
}
