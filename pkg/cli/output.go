package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Ladicle/tabwriter"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

var (
	headerColor  = color.New(color.Bold, color.Underline)
	sectionColor = color.New(color.FgCyan, color.Bold)
)

func impactColor(impact types.Impact) *color.Color {
	switch impact {
	case types.ImpactVeryHigh:
		return color.New(color.FgHiRed, color.Bold)
	case types.ImpactHigh:
		return color.New(color.FgRed)
	case types.ImpactMedium:
		return color.New(color.FgYellow)
	case types.ImpactLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.Reset)
	}
}

// printer renders command results as tables or JSON.
type printer struct {
	w      io.Writer
	asJSON bool
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

func (p *printer) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headerColor.Sprint(h)
	}
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write table")
	}
	return nil
}

func (p *printer) section(title string) {
	fmt.Fprintln(p.w, sectionColor.Sprint(title))
}

var riskHeader = []string{"ID", "STATUS", "IMPACT", "PROBABILITY", "DESCRIPTION"}

func riskRows(risks []*model.Risk) [][]string {
	rows := make([][]string, len(risks))
	for i, r := range risks {
		rows[i] = []string{
			r.ID.String(),
			string(r.Status.GroupKey()),
			impactColor(r.Impact).Sprint(orDash(string(r.Impact))),
			orDash(string(r.Probability)),
			r.Description,
		}
	}
	return rows
}

func (p *printer) risks(risks []*model.Risk) error {
	if p.asJSON {
		return p.json(risks)
	}
	if len(risks) == 0 {
		fmt.Fprintln(p.w, "no risks")
		return nil
	}
	return p.table(riskHeader, riskRows(risks))
}

func (p *printer) riskGroups(groups model.RiskGroups) error {
	if p.asJSON {
		return p.json(groups)
	}
	if len(groups) == 0 {
		fmt.Fprintln(p.w, "no risks")
		return nil
	}
	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.section(fmt.Sprintf("%s (%d)", group.Status, len(group.Risks)))
		if err := p.table(riskHeader, riskRows(group.Risks)); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) risk(r *model.Risk) error {
	if p.asJSON {
		return p.json(r)
	}
	return p.table(riskHeader, riskRows([]*model.Risk{r}))
}

func (p *printer) valueHelp(vh model.ValueHelp) error {
	if p.asJSON {
		return p.json(vh)
	}
	rows := [][]string{
		{"impact", joinCodes(vh.Impact)},
		{"probability", joinCodes(vh.Probability)},
		{"status", joinCodes(vh.Status)},
	}
	return p.table([]string{"FIELD", "CODES"}, rows)
}

func (p *printer) opportunities(opps []*model.Opportunity) error {
	if p.asJSON {
		return p.json(opps)
	}
	if len(opps) == 0 {
		fmt.Fprintln(p.w, "no opportunities")
		return nil
	}
	rows := make([][]string, len(opps))
	for i, o := range opps {
		rows[i] = []string{o.ID.String(), o.Title()}
	}
	return p.table([]string{"ID", "TITLE"}, rows)
}

func (p *printer) opportunityRisks(opp *model.Opportunity, risks []*model.Risk) error {
	if p.asJSON {
		return p.json(struct {
			Opportunity *model.Opportunity `json:"opportunity"`
			Risks       []*model.Risk      `json:"risks"`
		}{opp, risks})
	}
	p.section(fmt.Sprintf("%s  %s", opp.ID, opp.Title()))
	return p.risks(risks)
}

func joinCodes[T ~string](codes []T) string {
	if len(codes) == 0 {
		return "-"
	}
	s := make([]string, len(codes))
	for i, c := range codes {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
