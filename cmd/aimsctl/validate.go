package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/codelist"
)

var preferredLang string

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Extract metadata from a report file and run advisory checks",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&preferredLang, "lang", "en", "preferred narrative language")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	text := string(raw)

	meta, err := activity.ExtractMeta(text, activity.WithPreferredLang(preferredLang))
	if err != nil {
		if kind, ok := activity.KindOf(err); ok {
			return fmt.Errorf("report rejected (%s): %w", kind, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "iati-identifier:    %s\n", meta.IATIIdentifier)
	fmt.Fprintf(out, "reporting-org ref:  %s\n", meta.ReportingOrgRef)
	if meta.ReportingOrgName != "" {
		fmt.Fprintf(out, "reporting-org name: %s\n", meta.ReportingOrgName)
	}
	if meta.LastUpdated != "" {
		fmt.Fprintf(out, "last updated:       %s\n", meta.LastUpdated)
	}

	if n, err := activity.CountActivities(text); err == nil && n > 1 {
		fmt.Fprintf(out, "warning: document carries %d activities; only the first was read\n", n)
	}

	txs, err := activity.ExtractTransactions(text, activity.WithPreferredLang(preferredLang))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "transactions:       %d\n", len(txs))

	warnings := 0
	for _, tx := range txs {
		if tx.Type != "" && !codelist.IsValid(codelist.TransactionType, tx.Type) {
			fmt.Fprintf(out, "warning: transaction %s: unknown transaction type %q\n", tx.ID, tx.Type)
			warnings++
		}
		if len(tx.SectorLines) == 0 {
			continue
		}
		allocs := make([]allocation.Allocation, len(tx.SectorLines))
		for i, line := range tx.SectorLines {
			allocs[i] = allocation.Allocation{Code: line.Code, Percentage: line.Percentage}
			if !codelist.IsValid(codelist.SectorCode, line.Code) {
				fmt.Fprintf(out, "warning: transaction %s: invalid sector code %q\n", tx.ID, line.Code)
				warnings++
			}
		}
		if res := allocation.ValidateSumTo100(allocs); !res.Valid {
			fmt.Fprintf(out, "warning: transaction %s: %s\n", tx.ID, res.Warning)
			warnings++
		}
	}

	if warnings == 0 {
		fmt.Fprintln(out, "ok: no advisory warnings")
	} else {
		fmt.Fprintf(out, "%d advisory warning(s); the file would still import\n", warnings)
	}
	return nil
}
