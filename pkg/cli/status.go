package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/status"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <person-a> <person-b>",
	Short: "Compute the full status picture for a pair",
	Long: `Status evaluates every registered rule for the pair at the query index
and prints the resulting statuses (highest priority first), any active
levirate bond, and rules whose outcome depends on a disputed opinion.

Example:
  yevamos status shimon leah --graph family.yaml
  yevamos status shimon leah -g family.yaml --at 2 -o tzaros-ervah=beis-shammai`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <person-a> <person-b>",
	Short: "Check whether a marriage between the pair is permitted",
	Long: `Check answers the single yes/no question: does any prohibitive status
bar a marriage between the pair at the query index? An active levirate
bond overrides the brother's-wife prohibition, and only that one.

Exit status is 0 when permitted, 1 when forbidden.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	engine, index, err := loadEngine()
	if err != nil {
		return err
	}
	profile, err := parseProfile()
	if err != nil {
		return err
	}

	a, b := graph.PersonID(args[0]), graph.PersonID(args[1])
	res := engine.ComputeStatus(a, b, index, profile)

	fmt.Printf("%s ↔ %s at slice %d\n\n", a, b, index)
	if len(res.Entries) == 0 {
		fmt.Println("No status applies.")
	}
	for _, e := range res.Entries {
		printEntry(e)
	}
	if res.Zikah != nil {
		fmt.Printf("\nZikah: widow=%s deceased=%s status=%s active=%v\n",
			res.Zikah.Widow, res.Zikah.Deceased, res.Zikah.Status, res.Zikah.Active)
	}
	for _, d := range res.Disputes {
		fmt.Printf("\nDisputed: %s applies only under %s=%s (selected: %s)\n",
			d.RuleID, d.Machlokas, d.Required, d.Selected)
	}
	return nil
}

func printEntry(e status.Entry) {
	fmt.Printf("  [%s] %s — %s (%s)\n", e.Category.Severity, e.Display, e.Category.NameEn, e.RuleID)
	if len(e.Path) > 1 {
		fmt.Printf("      via %v\n", e.Path)
	}
	for _, c := range e.Citations {
		fmt.Printf("      %s\n", c)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine, index, err := loadEngine()
	if err != nil {
		return err
	}
	profile, err := parseProfile()
	if err != nil {
		return err
	}

	a, b := graph.PersonID(args[0]), graph.PersonID(args[1])
	if engine.IsMarriagePermitted(a, b, index, profile) {
		fmt.Printf("%s ↔ %s at slice %d: permitted\n", a, b, index)
		return nil
	}
	fmt.Printf("%s ↔ %s at slice %d: forbidden\n", a, b, index)
	os.Exit(1)
	return nil
}
