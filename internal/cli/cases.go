package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/triago/internal/cbr"
	"github.com/spf13/cobra"
)

var casesFile string

// casesCmd represents the cases command
var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the reference case base",
	Long: `Display the reference cases used for similarity retrieval: id, label,
the full fact snapshot, and the stored action plan.

Example:
  triago cases
  triago cases --cases ./my-cases.yaml`,
	RunE: runCases,
}

func init() {
	rootCmd.AddCommand(casesCmd)

	casesCmd.Flags().StringVar(&casesFile, "cases", "", "load a custom case base YAML instead of the built-in one")
}

func runCases(cmd *cobra.Command, args []string) error {
	var (
		base *cbr.CaseBase
		err  error
	)
	if casesFile != "" {
		base, err = cbr.LoadFile(casesFile)
	} else {
		base, err = cbr.Load()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Case base: %d reference cases\n\n", base.Len())

	for _, c := range base.Cases() {
		fmt.Printf("Case %d: %s\n", c.ID, c.Label)
		f := c.Facts
		fmt.Printf("  airway=%s cspine=%s tension_ptx=%s open_ptx=%s flail=%s resp_distress=%s\n",
			f.Airway, f.CSpine, f.TensionPTX, f.OpenPTX, f.Flail, f.RespDistress)
		fmt.Printf("  sbp=%d ext_bleed=%s pelvic_unstable=%s gcs=%d pupils=%s hypothermia=%s burns=%s\n",
			f.SBP, f.ExtBleed, f.PelvicUnstable, f.GCS, f.Pupils, f.Hypothermia, f.Burns)
		fmt.Printf("  plan: %s\n\n", strings.Join(c.Actions, "; "))
	}

	return nil
}
