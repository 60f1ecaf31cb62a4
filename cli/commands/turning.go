package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petal-labs/coulomb/core"
)

func (a *App) newTurningCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turning",
		Short: "Print classical turning points for a range of l",
		Long: `Print rho_TP = eta + sqrt(eta^2 + l(l+1)) for each l in the range.
Below the turning point the functions are exponential and accuracy degrades.

Example:
  coulomb turning --eta 2 --lmax 5`,
		Args: cobra.NoArgs,
		RunE: a.runTurning,
	}

	cmd.Flags().Float64Var(&a.turningEta, "eta", 0, "Sommerfeld parameter")
	cmd.Flags().IntVar(&a.turningLMin, "lmin", 0, "lowest angular momentum")
	cmd.Flags().IntVar(&a.turningLMax, "lmax", 0, "highest angular momentum")

	return cmd
}

type turningRow struct {
	L            int     `json:"l" yaml:"l"`
	TurningPoint float64 `json:"turning_point" yaml:"turning_point"`
}

func (a *App) runTurning(cmd *cobra.Command, args []string) error {
	lmax := max(a.turningLMax, a.turningLMin)
	lr, err := core.Range(a.turningLMin, lmax)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	format, err := a.resolveFormat()
	if err != nil {
		return err
	}

	rows := make([]turningRow, 0, lr.Len())
	for _, l := range lr.Ls() {
		rows = append(rows, turningRow{L: l, TurningPoint: core.TurningPoint(a.turningEta, l)})
	}

	if format == FormatJSON || format == FormatYAML {
		return writeDocument(a.stdout, format, rows)
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{strconv.Itoa(r.L), formatFloat(r.TurningPoint)}
	}
	return writeRecords(a.stdout, format, []string{"l", "turning_point"}, records)
}
