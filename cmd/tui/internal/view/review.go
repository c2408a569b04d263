package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/payment"
	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/statement"
)

const (
	skipChoice    = "skip"
	unmatchChoice = "unmatch"
)

// ReviewModel walks the transactions of a statement and lets the operator
// pair unmatched ones with a payment by hand, or undo existing matches.
type ReviewModel struct {
	CommonModel
	stmtService  *statement.Service
	reconService *reconcile.Service

	state ReviewState

	stmts        []*statement.Statement
	selectedIdx  int
	statementID  uuid.UUID
	queue        []*statement.BankTransaction
	currentTx    *statement.BankTransaction
	candidates   []*payment.Transaction
	form         *huh.Form
	formSelected string

	status     string
	loading    bool
	totalCount int
}

type ReviewState int

const (
	StatePickStatement ReviewState = iota
	StateReviewing
)

func NewReviewModel(stmtSvc *statement.Service, reconSvc *reconcile.Service) ReviewModel {
	return ReviewModel{
		stmtService:  stmtSvc,
		reconService: reconSvc,
		state:        StatePickStatement,
		status:       "Select a statement to review",
		loading:      true,
	}
}

func (m ReviewModel) Title() string { return "Review Matches" }
func (m ReviewModel) ShortHelp() string {
	if m.state == StateReviewing {
		return "Navigate form | Esc: back"
	}
	return "Up/Down: select | Enter: review | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadStatementsCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewStatementsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading statements: %v", msg.err)
			break
		}

		m.stmts = msg.stmts
		if len(m.stmts) == 0 {
			m.status = "No statements to review."
		}

		return m, nil

	case reviewQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			break
		}

		m.queue = msg.txs
		m.candidates = msg.candidates
		m.totalCount = len(m.queue)

		return m.nextTx()

	case matchResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error matching: %v", msg.err)
			break
		}

		return m.nextTx()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			if m.state == StateReviewing {
				m.state = StatePickStatement
				m.form = nil
				m.currentTx = nil

				return m, m.loadStatementsCmd()
			}

			return m, Back

		case tea.KeyEnter:
			if m.state == StatePickStatement && len(m.stmts) > 0 {
				m.statementID = m.stmts[m.selectedIdx].ID
				m.state = StateReviewing
				m.loading = true

				return m, m.loadQueueCmd()
			}

		case tea.KeyUp:
			if m.state == StatePickStatement && m.selectedIdx > 0 {
				m.selectedIdx--
			}

		case tea.KeyDown:
			if m.state == StatePickStatement && m.selectedIdx < len(m.stmts)-1 {
				m.selectedIdx++
			}
		}
	}

	if m.state == StateReviewing && m.form != nil {
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		choice := m.formSelected
		m.form = nil

		switch choice {
		case skipChoice:
			return m.nextTx()
		case unmatchChoice:
			return m, m.unmatchCmd()
		default:
			return m, m.matchCmd(choice)
		}
	}

	return m, nil
}

func (m ReviewModel) View() string {
	if m.state == StatePickStatement {
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading statements...")
		}

		s := "Select Statement:\n\n"

		for i, stmt := range m.stmts {
			cursor := " "
			if m.selectedIdx == i {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %s %s (%d unmatched)\n",
				cursor, stmt.BankName, FormatDate(stmt.StatementDate), stmt.UnmatchedCount)
		}

		if len(m.stmts) == 0 {
			s = m.status + "\n\n(Esc to back)"
		}

		return lipgloss.NewStyle().Padding(2).Render(s)
	}

	content := ""

	switch {
	case m.loading:
		content = "Loading transactions..."
	case m.currentTx != nil && m.form != nil:
		info := fmt.Sprintf(
			"Date: %s\nType: %s\nAmount: %s\nDescription: %s\nReference: %s\n",
			FormatDate(m.currentTx.Date),
			m.currentTx.Type,
			FormatAmount(m.currentTx.Amount),
			m.currentTx.Description,
			m.currentTx.Reference,
		)
		content = fmt.Sprintf("%s\n%s\n%s", m.status, info, m.form.View())
	default:
		content = m.status + "\n\n(Esc to back)"
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func (m ReviewModel) nextTx() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.form = nil
		m.status = "All done! No more unmatched transactions."

		return m, nil
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	m.currentTx = tx

	currentIdx := m.totalCount - len(m.queue)
	m.status = fmt.Sprintf("Reviewing %d/%d", currentIdx, m.totalCount)

	options := []huh.Option[string]{huh.NewOption("Skip", skipChoice)}
	title := "Match with payment"

	if tx.Matched {
		options = append(options, huh.NewOption("Unmatch", unmatchChoice))
		title = "Already matched"
	} else {
		for _, p := range m.candidates {
			label := fmt.Sprintf("%s %s (%s)", FormatAmount(p.Amount), p.Currency, FormatDate(p.CreatedAt))
			options = append(options, huh.NewOption(label, p.ID.String()))
		}
	}

	m.formSelected = skipChoice
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("payment").
				Title(title).
				Options(options...).
				Value(&m.formSelected),
		),
	).WithWidth(60).WithShowHelp(false)

	return m, m.form.Init()
}

// Messages

type reviewStatementsMsg struct {
	stmts []*statement.Statement
	err   error
}

func (m ReviewModel) loadStatementsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stmts, err := m.stmtService.List(ctx)
		return reviewStatementsMsg{stmts: stmts, err: err}
	}
}

type reviewQueueMsg struct {
	txs        []*statement.BankTransaction
	candidates []*payment.Transaction
	err        error
}

func (m ReviewModel) loadQueueCmd() tea.Cmd {
	id := m.statementID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.stmtService.SearchTransactions(ctx, id, statement.TxFilter{})
		if err != nil {
			return reviewQueueMsg{err: err}
		}

		candidates, err := m.reconService.CandidatePayments(ctx)
		if err != nil {
			return reviewQueueMsg{err: err}
		}

		return reviewQueueMsg{txs: txs, candidates: candidates}
	}
}

type matchResultMsg struct {
	err error
}

func (m ReviewModel) matchCmd(paymentID string) tea.Cmd {
	txID := m.currentTx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		id, err := uuid.Parse(paymentID)
		if err != nil {
			return matchResultMsg{err: err}
		}

		return matchResultMsg{err: m.reconService.ManualMatch(ctx, txID, id)}
	}
}

func (m ReviewModel) unmatchCmd() tea.Cmd {
	txID := m.currentTx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return matchResultMsg{err: m.reconService.Unmatch(ctx, txID)}
	}
}
