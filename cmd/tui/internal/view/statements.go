package view

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/report"
	"github.com/black12-ag/reconcile/internal/statement"
)

// StatementsModel lists uploaded statements, triggers reconciliation runs
// and exports reports to disk.
type StatementsModel struct {
	CommonModel
	stmtService  *statement.Service
	reconService *reconcile.Service

	table   table.Model
	stmts   []*statement.Statement
	loading bool
	err     error
	status  string
}

func NewStatementsModel(stmtSvc *statement.Service, reconSvc *reconcile.Service) StatementsModel {
	columns := []table.Column{
		{Title: "Bank", Width: 20},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Matched", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return StatementsModel{
		stmtService:  stmtSvc,
		reconService: reconSvc,
		table:        t,
	}
}

func (m StatementsModel) Title() string { return "Statements" }
func (m StatementsModel) ShortHelp() string {
	return "Esc: back | enter: reconcile | x: export report | r: refresh"
}

func (m StatementsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadStatementsCmd()
}

func (m StatementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStatementsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.stmts = msg.stmts
		m.refreshTable()
		return m, nil

	case reconcileDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Reconcile failed: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Reconciled: %d new matches", msg.newlyMatched)
		return m, m.loadStatementsCmd()

	case exportDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Report written to %s", msg.path)
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadStatementsCmd()
		case "enter":
			if stmt := m.selected(); stmt != nil {
				m.status = "Reconciling..."
				return m, m.reconcileCmd(stmt)
			}
			return m, nil
		case "x":
			if stmt := m.selected(); stmt != nil {
				return m, m.exportCmd(stmt)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m StatementsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading statements...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m StatementsModel) selected() *statement.Statement {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.stmts) {
		return nil
	}

	return m.stmts[idx]
}

func (m *StatementsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.stmts))
	for _, stmt := range m.stmts {
		total := stmt.MatchedCount + stmt.UnmatchedCount
		rows = append(rows, table.Row{
			stmt.BankName,
			FormatDate(stmt.StatementDate),
			string(stmt.Status),
			fmt.Sprintf("%d/%d", stmt.MatchedCount, total),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadStatementsMsg struct {
	stmts []*statement.Statement
	err   error
}

func (m StatementsModel) loadStatementsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stmts, err := m.stmtService.List(ctx)
		return loadStatementsMsg{stmts: stmts, err: err}
	}
}

type reconcileDoneMsg struct {
	newlyMatched int
	err          error
}

func (m StatementsModel) reconcileCmd(stmt *statement.Statement) tea.Cmd {
	id := stmt.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		matched, err := m.reconService.Run(ctx, id)
		return reconcileDoneMsg{newlyMatched: matched, err: err}
	}
}

type exportDoneMsg struct {
	path string
	err  error
}

func (m StatementsModel) exportCmd(stmt *statement.Statement) tea.Cmd {
	id := stmt.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		full, err := m.stmtService.Get(ctx, id)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		matches, err := m.reconService.MatchesForStatement(ctx, id)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		data, err := json.MarshalIndent(report.Build(full, matches), "", "  ")
		if err != nil {
			return exportDoneMsg{err: err}
		}

		path := report.Filename(id)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{path: path}
	}
}
