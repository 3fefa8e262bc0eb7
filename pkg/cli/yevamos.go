package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
)

// bondsCmd represents the bonds command
var bondsCmd = &cobra.Command{
	Use:   "bonds [widow]",
	Short: "List active levirate bonds at the query index",
	Long: `Bonds lists the widows under an active levirate bond at the query
index. With a widow argument it lists the living brothers bound to her
instead.

Example:
  yevamos bonds --graph family.yaml
  yevamos bonds leah -g family.yaml --at 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBonds,
}

func init() {
	rootCmd.AddCommand(bondsCmd)
}

func runBonds(cmd *cobra.Command, args []string) error {
	engine, index, err := loadEngine()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		widow := graph.PersonID(args[0])
		brothers := engine.YevamimFor(widow, index)
		if len(brothers) == 0 {
			fmt.Printf("No yavam bound to %s at slice %d.\n", widow, index)
			return nil
		}
		for _, b := range brothers {
			fmt.Println(b)
		}
		return nil
	}

	widows := engine.Yevamos(index)
	if len(widows) == 0 {
		fmt.Printf("No active bonds at slice %d.\n", index)
		return nil
	}
	for _, w := range widows {
		fmt.Println(w)
	}
	return nil
}
