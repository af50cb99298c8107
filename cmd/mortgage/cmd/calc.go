package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mortgage/internal/core"
	"mortgage/internal/form"
)

var calcFlags = []struct {
	name  string
	field form.Field
	usage string
}{
	{"principal", form.FieldPrincipal, "Property price, currency text allowed ($300,000)"},
	{"down", form.FieldDownPayment, "Down payment"},
	{"rate", form.FieldAnnualRate, "Annual interest rate in percent"},
	{"years", form.FieldTermYears, "Loan term in years"},
	{"tax", form.FieldPropertyTax, "Monthly property tax"},
	{"insurance", form.FieldInsurance, "Monthly insurance"},
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute a mortgage payment",
	Long: `Compute the monthly payment, total payment and total interest of a
fixed-rate mortgage. Unset flags keep the calculator defaults
(300000 principal, 60000 down, 3.5% over 30 years).

Examples:
  mortgage calc
  mortgage calc --principal '$450,000' --down 90000 --rate 6.25
  mortgage calc --years 15 --tax 350 --insurance 120`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	for _, f := range calcFlags {
		calcCmd.Flags().String(f.name, "", f.usage)
	}
}

func runCalc(cmd *cobra.Command, args []string) error {
	c := form.New()
	for _, f := range calcFlags {
		flag := cmd.Flags().Lookup(f.name)
		if flag == nil || !flag.Changed {
			continue
		}
		if !c.Edit(cmd.Context(), f.field, flag.Value.String()) {
			return fmt.Errorf("invalid value for --%s: %q", f.name, flag.Value.String())
		}
	}

	return printCalculation(cmd.OutOrStdout(), c.Snapshot())
}

func printCalculation(out io.Writer, snap form.Snapshot) error {
	p, r := snap.Params, snap.Result

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		value string
	}{
		{"Principal", core.RoundCents(p.Principal).StringFixed(2)},
		{"Down payment", core.RoundCents(p.DownPayment).StringFixed(2)},
		{"Financed amount", core.RoundCents(p.FinancedAmount()).StringFixed(2)},
		{"Annual rate %", core.RoundCents(p.AnnualRatePercent).StringFixed(2)},
		{"Term (years)", fmt.Sprintf("%d", p.TermYears)},
		{"", ""},
		{"Monthly payment", core.RoundCents(r.MonthlyPayment).StringFixed(2)},
		{"Monthly with extras", core.RoundCents(r.MonthlyWithExtras).StringFixed(2)},
		{"Total payment", core.RoundCents(r.TotalPayment).StringFixed(2)},
		{"Total interest", core.RoundCents(r.TotalInterest).StringFixed(2)},
	}
	for _, row := range rows {
		if row.label == "" {
			fmt.Fprintln(tw, "\t")
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\t\n", row.label, row.value)
	}
	return tw.Flush()
}
