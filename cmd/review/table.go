package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

var statusStyles = map[constants.ComplianceStatus]color.Style{
	constants.Compliant:          color.New(color.FgGreen),
	constants.PartiallyCompliant: color.New(color.FgYellow),
	constants.NonCompliant:       color.New(color.FgRed, color.OpBold),
	constants.InformationMissing: color.New(color.FgMagenta),
}

// printAssessment renders the compliance rows as a plain table followed by the decision.
func printAssessment(w io.Writer, r llm.ReviewResult, colours bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Requirement", "Submittal Info", "Status"})
	table.SetAutoWrapText(true)
	table.SetColWidth(60)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(true)

	for i, item := range r.ComplianceAssessment {
		status := string(item.Status)
		if st, ok := statusStyles[item.Status]; ok && colours {
			status = st.Render(status)
		}
		table.Append([]string{strconv.Itoa(i + 1), item.Requirement, item.SubmittalInfo, status})
	}
	table.Render()

	decision := string(r.Recommendation.Decision)
	if colours {
		decision = color.New(color.OpBold).Render(decision)
	}
	fmt.Fprintf(w, "\nDecision: %s\n", decision)
	if r.Recommendation.Comments != "" {
		fmt.Fprintf(w, "%s\n", r.Recommendation.Comments)
	}
	if r.CriticalIssues != "" {
		fmt.Fprintf(w, "\nCritical issues: %s\n", r.CriticalIssues)
	}
}
