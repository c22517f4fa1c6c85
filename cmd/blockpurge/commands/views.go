package commands

import (
	"strconv"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/marmos91/blockpurge/pkg/purge"
)

// catalogView renders the block table of an analysis.
type catalogView struct {
	analysis *purge.Analysis
}

// Headers implements TableRenderer.
func (v catalogView) Headers() []string {
	return []string{"NAME", "LAYOUT", "XREF", "ATTRIBUTES", "REFERENCES", "INACTIVE"}
}

// Rows implements TableRenderer.
func (v catalogView) Rows() [][]string {
	a := v.analysis
	scanned := a.ScanErr == nil
	rows := make([][]string, 0, len(a.Catalog))
	for _, b := range a.Catalog {
		refs := "?"
		if scanned {
			refs = strconv.Itoa(a.Usage.Uses(b.Name))
		}
		rows = append(rows, []string{
			b.Name,
			output.YesNo(b.IsLayout),
			output.YesNo(b.IsExternalReference),
			output.YesNo(b.HasAttributes),
			refs,
			output.YesNo(a.IsInactive(b.Name)),
		})
	}
	return rows
}

// candidateView renders the names selected for deletion.
type candidateView struct {
	names   []string
	catalog map[string]purge.BlockDescriptor
}

func newCandidateView(a *purge.Analysis, names []string) candidateView {
	catalog := make(map[string]purge.BlockDescriptor, len(a.Catalog))
	for _, b := range a.Catalog {
		catalog[b.Name] = b
	}
	return candidateView{names: names, catalog: catalog}
}

// Headers implements TableRenderer.
func (v candidateView) Headers() []string {
	return []string{"#", "NAME", "ATTRIBUTES"}
}

// Rows implements TableRenderer.
func (v candidateView) Rows() [][]string {
	rows := make([][]string, 0, len(v.names))
	for i, n := range v.names {
		rows = append(rows, []string{strconv.Itoa(i + 1), n, output.YesNo(v.catalog[n].HasAttributes)})
	}
	return rows
}

// reportView renders per-block outcomes.
type reportView struct {
	report *purge.Report
}

// Headers implements TableRenderer.
func (v reportView) Headers() []string {
	return []string{"#", "NAME", "RESULT", "REASON", "DETAIL"}
}

// Rows implements TableRenderer.
func (v reportView) Rows() [][]string {
	rows := make([][]string, 0, len(v.report.Outcomes))
	for i, o := range v.report.Outcomes {
		result := "deleted"
		if !o.Succeeded {
			result = "failed"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			o.Name,
			result,
			cmdutil.EmptyOr(string(o.Reason), "-"),
			cmdutil.EmptyOr(o.Detail, "-"),
		})
	}
	return rows
}

// stateLine prints the message of state in a color matching its severity.
func stateLine(p *output.Printer, state purge.State) {
	switch state {
	case purge.StateCompleted, purge.StateNothingInactive:
		p.Success(state.Message())
	case purge.StateScanFailed, purge.StateAllFailed:
		p.Error(state.Message())
	default:
		p.Warning(state.Message())
	}
}
