package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"trapscan/internal/model"
	"trapscan/internal/pending"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	failed  = color.New(color.FgRed)
)

// Filter returns all minus every ref equal to one in null, keeping order.
func Filter(all, null []model.BondRef) []model.BondRef {
	drop := make(map[model.BondRef]struct{}, len(null))
	for _, ref := range null {
		drop[ref] = struct{}{}
	}

	out := make([]model.BondRef, 0, len(all))
	for _, ref := range all {
		if _, ok := drop[ref]; ok {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// Build assembles one report per source, in source order.
func Build(sources []model.Source, bondIDs model.BondIDs, checks map[string][]model.BondCheck, failures map[string]error) []model.SourceReport {
	reports := make([]model.SourceReport, 0, len(sources))
	for _, src := range sources {
		all := bondIDs[src.Label]
		null := pending.NullRefs(checks[src.Label])
		reports = append(reports, model.SourceReport{
			Source:   src,
			All:      all,
			Null:     null,
			Filtered: Filter(all, null),
			Err:      failures[src.Label],
		})
	}
	return reports
}

// Reporter prints source reports.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Print writes null lists, filtered lists and a count summary.
func (r *Reporter) Print(reports []model.SourceReport) {
	heading.Fprintln(r.w, "Null bond ids")
	for _, rep := range reports {
		fmt.Fprintf(r.w, "%s: %s\n", strings.ToUpper(rep.Source.Label), formatRefs(rep.Null))
	}

	fmt.Fprintln(r.w)
	heading.Fprintln(r.w, "Filtered bond ids")
	for _, rep := range reports {
		fmt.Fprintf(r.w, "Filtered bond_ids for %s: %s\n", rep.Source.Label, formatRefs(rep.Filtered))
	}

	for _, rep := range reports {
		if rep.Err != nil {
			failed.Fprintf(r.w, "%s failed: %v\n", rep.Source.Label, rep.Err)
		}
	}

	fmt.Fprintln(r.w)
	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"Source", "Unfiltered", "Null", "Filtered"})
	var totalAll, totalNull, totalFiltered int
	for _, rep := range reports {
		table.Append([]string{
			rep.Source.Label,
			strconv.Itoa(len(rep.All)),
			strconv.Itoa(len(rep.Null)),
			strconv.Itoa(len(rep.Filtered)),
		})
		totalAll += len(rep.All)
		totalNull += len(rep.Null)
		totalFiltered += len(rep.Filtered)
	}
	table.SetFooter([]string{"Total", strconv.Itoa(totalAll), strconv.Itoa(totalNull), strconv.Itoa(totalFiltered)})
	table.Render()
}

func formatRefs(refs []model.BondRef) string {
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, ref.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
