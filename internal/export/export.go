// Package export renders member and fund data as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"giapha-go/internal/domain/fund"
	"giapha-go/internal/domain/member"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MembersSheet  = "Members"
	FundSheet     = "Fund"
	dateLayout    = "2006-01-02"
	defaultColumn = 16
)

type column struct {
	header string
	width  float64
}

var memberColumns = []column{
	{"ID", 38},
	{"Full name", 28},
	{"Gender", 10},
	{"Generation", 12},
	{"Birth order", 12},
	{"Father/Mother", 28},
	{"Spouse", 28},
	{"Birth date", 14},
	{"Death date", 14},
	{"Deceased", 10},
	{"Anniversary", 16},
	{"Phone", 16},
	{"Email", 24},
	{"Address", 32},
	{"Burial place", 32},
}

var fundColumns = []column{
	{"Date", 14},
	{"Kind", 10},
	{"Amount (VND)", 16},
	{"Description", 40},
	{"Contributor", 28},
}

// Members writes one row per member, resolving parent and spouse ids to names.
func Members(members []member.Member) ([]byte, error) {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName
	}

	rows := make([][]any, 0, len(members))
	for _, m := range members {
		rows = append(rows, []any{
			m.ID,
			m.FullName,
			string(m.Gender),
			m.Generation,
			m.BirthOrder,
			nameOf(names, m.ParentID),
			nameOf(names, m.SpouseID),
			formatDate(m.BirthDate),
			formatDate(m.DeathDate),
			yesNo(m.IsDeceased),
			m.AnniversaryDate,
			m.Phone,
			m.Email,
			m.Address,
			m.BurialPlace,
		})
	}
	return render(MembersSheet, memberColumns, rows, nil)
}

// Fund writes the ledger followed by income, expense and balance rows.
// contributors maps member ids to display names.
func Fund(entries []fund.Entry, summary fund.Summary, contributors map[string]string) ([]byte, error) {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []any{
			entry.OccurredOn.Format(dateLayout),
			string(entry.Kind),
			entry.Amount,
			entry.Description,
			nameOf(contributors, entry.ContributorID),
		})
	}

	footer := [][]any{
		{},
		{"Income", "", summary.Income},
		{"Expense", "", summary.Expense},
		{"Balance", "", summary.Balance},
	}
	return render(FundSheet, fundColumns, rows, footer)
}

func render(sheet string, columns []column, rows, footer [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F3E5AB"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := col.width
		if width <= 0 {
			width = defaultColumn
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	line := 2
	for _, group := range [][][]any{rows, footer} {
		for _, row := range group {
			if err := writeRow(f, sheet, line, row); err != nil {
				return nil, err
			}
			line++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, line int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", line, err)
	}
	return nil
}

func nameOf(names map[string]string, id *string) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func formatDate(date *time.Time) string {
	if date == nil || date.IsZero() {
		return ""
	}
	return date.Format(dateLayout)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
