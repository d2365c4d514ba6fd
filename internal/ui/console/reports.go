// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/storage"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// REPORTS STATE
// =============================================================================

// reportsState drives report generation and the local archive browser.
type reportsState struct {
	archive []storage.ArchivedReport
	cursor  int

	// Generation form. Hidden until opened with "g".
	formOpen bool
	typeIdx  int
	fields   []textinput.Model
	focus    int
	errMsg   string
}

func newReportsState() reportsState {
	s := reportsState{}
	s.buildFields()
	return s
}

// buildFields creates the input set for the selected report type.
func (s *reportsState) buildFields() {
	typ := model.ReportTypes[s.typeIdx]
	make1 := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	switch typ {
	case model.ReportMonthlyFines:
		now := time.Now()
		month := make1("month (1-12)", 2)
		month.SetValue(strconv.Itoa(int(now.Month())))
		year := make1("year", 4)
		year.SetValue(strconv.Itoa(now.Year()))
		s.fields = []textinput.Model{month, year}
	case model.ReportPayments:
		s.fields = []textinput.Model{
			make1("start (YYYY-MM-DD)", 10),
			make1("end (YYYY-MM-DD)", 10),
		}
	case model.ReportDriverViolations:
		s.fields = []textinput.Model{make1("license number", 20)}
	}
	s.focus = 0
	if len(s.fields) > 0 {
		s.fields[0].Focus()
	}
}

func (s *reportsState) setFocus(i int) {
	s.focus = i
	for idx := range s.fields {
		if idx == i {
			s.fields[idx].Focus()
		} else {
			s.fields[idx].Blur()
		}
	}
}

func (s *reportsState) typing() bool {
	if !s.formOpen {
		return false
	}
	for i := range s.fields {
		if s.fields[i].Focused() {
			return true
		}
	}
	return false
}

func fieldLabels(typ model.ReportType) []string {
	switch typ {
	case model.ReportMonthlyFines:
		return []string{"Month", "Year"}
	case model.ReportPayments:
		return []string{"From", "To"}
	case model.ReportDriverViolations:
		return []string{"License"}
	}
	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) loadArchive() tea.Cmd {
	tag := m.tag
	archive := m.archive
	return func() tea.Msg {
		reports, err := archive.ListReports(context.Background())
		return archiveListMsg{tag: tag, reports: reports, err: err}
	}
}

// generateReport fetches the selected report, archives it, prunes old
// entries and writes the JSON download into the configured directory.
func (m *Model) generateReport() tea.Cmd {
	typ := model.ReportTypes[m.reports.typeIdx]
	values := make([]string, len(m.reports.fields))
	for i := range m.reports.fields {
		values[i] = strings.TrimSpace(m.reports.fields[i].Value())
	}

	tag := m.tag
	client := m.client
	archive := m.archive
	cfg := m.cfg
	keep := m.cfg.Reports.Keep

	return tea.Batch(
		m.loader.Start("generating report"),
		func() tea.Msg {
			ctx := context.Background()

			var payload any
			var period string
			var err error
			switch typ {
			case model.ReportMonthlyFines:
				var month, year int
				month, err = strconv.Atoi(values[0])
				if err == nil {
					year, err = strconv.Atoi(values[1])
				}
				if err != nil {
					return reportDoneMsg{tag: tag, err: fmt.Errorf("month and year must be numbers")}
				}
				period = fmt.Sprintf("%04d-%02d", year, month)
				payload, err = client.MonthlyFinesReport(ctx, month, year)
			case model.ReportPayments:
				var start, end time.Time
				start, err = time.Parse("2006-01-02", values[0])
				if err == nil {
					end, err = time.Parse("2006-01-02", values[1])
				}
				if err != nil {
					return reportDoneMsg{tag: tag, err: fmt.Errorf("dates must be YYYY-MM-DD")}
				}
				period = values[0] + "_" + values[1]
				payload, err = client.PaymentsReport(ctx, start, end)
			case model.ReportDriverViolations:
				if values[0] == "" {
					return reportDoneMsg{tag: tag, err: fmt.Errorf("license number is required")}
				}
				period = values[0]
				payload, err = client.DriverViolationsReport(ctx, values[0])
			}
			if err != nil {
				return reportDoneMsg{tag: tag, err: err}
			}

			rec, err := archive.SaveReport(ctx, typ, period, payload)
			if err != nil {
				return reportDoneMsg{tag: tag, err: err}
			}
			if keep > 0 {
				// Best effort; a failed prune never blocks the download.
				_, _ = archive.Prune(ctx, keep)
			}

			dir, err := cfg.ReportDir()
			if err != nil {
				return reportDoneMsg{tag: tag, rec: rec, err: err}
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return reportDoneMsg{tag: tag, rec: rec, err: err}
			}
			path := filepath.Join(dir, rec.ExportName())
			if err := rec.ExportFile(path); err != nil {
				return reportDoneMsg{tag: tag, rec: rec, err: err}
			}
			return reportDoneMsg{tag: tag, rec: rec, path: path}
		},
	)
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) updateReports(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reports.formOpen {
		return m.updateReportForm(msg)
	}

	switch msg.String() {
	case "g":
		m.reports.formOpen = true
		m.reports.errMsg = ""
		m.reports.buildFields()
		return m, nil
	case "r":
		return m, m.loadArchive()
	case "up", "k":
		if m.reports.cursor > 0 {
			m.reports.cursor--
		}
		return m, nil
	case "down", "j":
		if m.reports.cursor < len(m.reports.archive)-1 {
			m.reports.cursor++
		}
		return m, nil
	case "e":
		return m.exportSelected()
	}
	return m, nil
}

func (m Model) updateReportForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.reports.formOpen = false
		return m, nil
	case "tab", "down":
		if n := len(m.reports.fields); n > 0 {
			m.reports.setFocus((m.reports.focus + 1) % n)
		}
		return m, nil
	case "shift+tab", "up":
		if n := len(m.reports.fields); n > 0 {
			m.reports.setFocus((m.reports.focus + n - 1) % n)
		}
		return m, nil
	case "left":
		m.reports.typeIdx = (m.reports.typeIdx + len(model.ReportTypes) - 1) % len(model.ReportTypes)
		m.reports.buildFields()
		return m, nil
	case "right":
		m.reports.typeIdx = (m.reports.typeIdx + 1) % len(model.ReportTypes)
		m.reports.buildFields()
		return m, nil
	case "enter":
		m.reports.errMsg = ""
		return m, m.generateReport()
	}

	var cmd tea.Cmd
	if m.reports.focus < len(m.reports.fields) {
		m.reports.fields[m.reports.focus], cmd = m.reports.fields[m.reports.focus].Update(msg)
	}
	return m, cmd
}

// exportSelected re-writes an archived report into the download
// directory. The write is local and fast, so it runs inline.
func (m Model) exportSelected() (tea.Model, tea.Cmd) {
	if m.reports.cursor >= len(m.reports.archive) {
		return m, nil
	}
	rec, err := m.archive.GetReport(context.Background(), m.reports.archive[m.reports.cursor].ID)
	if err != nil {
		return m, m.toast.Show(errNotice(err))
	}
	dir, err := m.cfg.ReportDir()
	if err != nil {
		return m, m.toast.Show(errNotice(err))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return m, m.toast.Show(errNotice(err))
	}
	path := filepath.Join(dir, rec.ExportName())
	if err := rec.ExportFile(path); err != nil {
		return m, m.toast.Show(errNotice(err))
	}
	return m, m.toast.Show(auth.Notice{Level: auth.NoticeSuccess, Message: "Saved " + path})
}

func (m Model) updateReportsResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportDoneMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			m.reports.errMsg = msg.err.Error()
			return m, nil
		}
		m.reports.formOpen = false
		cmd := m.toast.Show(auth.Notice{Level: auth.NoticeSuccess, Message: "Saved " + msg.path})
		return m, tea.Batch(cmd, m.loadArchive())

	case archiveListMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.reports.archive = msg.reports
		if m.reports.cursor >= len(msg.reports) {
			m.reports.cursor = 0
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) viewReports() string {
	if m.reports.formOpen {
		return m.viewReportForm()
	}

	lines := []string{styles.Title.Render("Report Archive")}
	if len(m.reports.archive) == 0 {
		lines = append(lines, styles.Hint.Render("no reports generated yet"))
	}
	for i, rec := range m.reports.archive {
		row := fmt.Sprintf("%-26s %-20s %s",
			rec.Type.Label(), rec.Period, rec.GeneratedAt.Local().Format("2006-01-02 15:04"))
		if i == m.reports.cursor {
			row = styles.TableSelected.Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", styles.Hint.Render("g generate · e save JSON · r reload"))
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewReportForm() string {
	typ := model.ReportTypes[m.reports.typeIdx]
	lines := []string{
		styles.Title.Render("Generate Report"),
		styles.Label.Render("Type") + styles.ActiveTab.Render(typ.Label()) + styles.Hint.Render("  ←/→ change"),
		"",
	}
	labels := fieldLabels(typ)
	for i := range m.reports.fields {
		lines = append(lines, styles.Label.Render(labels[i])+m.reports.fields[i].View())
	}
	if m.reports.errMsg != "" {
		lines = append(lines, "", styles.ErrorText.Render(m.reports.errMsg))
	}
	lines = append(lines, "", styles.Hint.Render("enter generate · esc back"))
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
