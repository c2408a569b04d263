package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/black12-ag/reconcile/cmd/tui/internal/view"
	"github.com/black12-ag/reconcile/internal/config"
	"github.com/black12-ag/reconcile/internal/database"
	"github.com/black12-ag/reconcile/internal/payment"
	paymentStore "github.com/black12-ag/reconcile/internal/payment/store"
	"github.com/black12-ag/reconcile/internal/reconcile"
	reconStore "github.com/black12-ag/reconcile/internal/reconcile/store"
	"github.com/black12-ag/reconcile/internal/statement"
	stmtStore "github.com/black12-ag/reconcile/internal/statement/store"
)

type model struct {
	stmtService  *statement.Service
	reconService *reconcile.Service

	currentView View

	statementsView view.StatementsModel
	reviewView     view.ReviewModel
}

type View int

const (
	ViewMenu       View = 0
	ViewStatements View = 1
	ViewReview     View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	stmtSvc := statement.NewService(stmtStore.New(db))
	paymentSvc := payment.NewService(paymentStore.New(db))
	reconSvc := reconcile.NewService(stmtSvc, paymentSvc, reconStore.New(db), cfg.Reconcile.BestMatch)

	return model{
		stmtService:    stmtSvc,
		reconService:   reconSvc,
		currentView:    ViewMenu,
		statementsView: view.NewStatementsModel(stmtSvc, reconSvc),
		reviewView:     view.NewReviewModel(stmtSvc, reconSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewStatements
				m.statementsView = view.NewStatementsModel(m.stmtService, m.reconService)

				return m, m.statementsView.Init()
			case "2":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.stmtService, m.reconService)

				return m, m.reviewView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewStatements:
		var newModel tea.Model
		newModel, cmd = m.statementsView.Update(msg)
		m.statementsView = newModel.(view.StatementsModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Reconcile Console\n\n" +
				"1. Statements\n" +
				"2. Review Matches\n\n" +
				"q. Quit",
		)
	case ViewStatements:
		return m.statementsView.View()
	case ViewReview:
		return m.reviewView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
