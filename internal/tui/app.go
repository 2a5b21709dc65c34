package tui

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fundadmin/internal/config"
	"github.com/jask/fundadmin/internal/loader"
	"github.com/jask/fundadmin/internal/repository"
	"github.com/jask/fundadmin/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	repos    Repos
	services Services
	cfg      config.Config
	theme    Theme
	keys     keyMap
	formKeys formKeyMap
	help     help.Model
	spinner  spinner.Model

	state      view
	menuCursor int
	status     string
	statusErr  bool
	currency   string
	width      int

	projects  *listView[repository.Project]
	donations *listView[repository.Donation]
	topups    *listView[repository.WalletTransaction]
	pending   *listView[repository.PendingAccount]
	totals    service.TotalsMemo
	form      *projectForm
	forms     int
}

type Repos struct {
	Projects  *repository.ProjectRepo
	Donations *repository.DonationRepo
	TopUps    *repository.TopUpRepo
	Accounts  *repository.AccountRepo
}

type Services struct {
	Projects *service.ProjectService
	Reviewer *service.AccountReviewer
}

type view string

const (
	viewDashboard   view = "dashboard"
	viewProjects    view = "projects"
	viewAddProject  view = "addProject"
	viewEditProject view = "editProject"
	viewDonations   view = "donations"
	viewTopUps      view = "topups"
	viewPending     view = "pending"
)

type menuItem struct {
	label  string
	target view
}

var dashboardMenu = []menuItem{
	{"Manage Projects", viewProjects},
	{"View Donations", viewDonations},
	{"View Top-Ups", viewTopUps},
	{"Pending Accounts", viewPending},
}

func New(ctx context.Context, cfg config.Config, repos Repos, services Services) *App {
	th := NewTheme(cfg.UI.Theme)
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent)
	h.Styles.ShortDesc = th.Dim
	h.Styles.ShortSeparator = th.Dim
	currency := cfg.UI.CurrencySymbol
	if currency == "" {
		currency = "₱"
	}
	return &App{
		ctx:      ctx,
		repos:    repos,
		services: services,
		cfg:      cfg,
		theme:    th,
		keys:     defaultKeys(),
		formKeys: defaultFormKeys(),
		help:     h,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(th.Accent))),
		state:    viewDashboard,
		currency: currency,
		projects: newListView("Projects", "No projects found.",
			loader.New("projects", repos.Projects.List),
			func(p repository.Project) string { return p.Title }),
		donations: newListView("Donations", "No donations found.",
			loader.New("donations", repos.Donations.List),
			func(d repository.Donation) string { return d.UserName + " " + d.ProjectTitle }),
		topups: newListView("Top-Ups", "No top-ups found.",
			loader.New("topups", repos.TopUps.List),
			func(t repository.WalletTransaction) string { return t.UserName }),
		pending: newListView("Pending Accounts", "No pending accounts.",
			loader.New("pending accounts", repos.Accounts.ListPending),
			func(p repository.PendingAccount) string { return p.UserName }),
	}
}

// SetLogger routes loader diagnostics to lg.
func (a *App) SetLogger(lg *log.Logger) {
	a.projects.loader.SetLogger(lg)
	a.donations.loader.SetLogger(lg)
	a.topups.loader.SetLogger(lg)
	a.pending.loader.SetLogger(lg)
}

func (a *App) Init() tea.Cmd { return nil }

// open switches to v and starts its load.
func (a *App) open(v view) tea.Cmd {
	a.state = v
	a.status = ""
	switch v {
	case viewProjects:
		return a.withSpinner(a.projects.load(a.ctx))
	case viewDonations:
		return a.withSpinner(a.donations.load(a.ctx))
	case viewTopUps:
		return a.withSpinner(a.topups.load(a.ctx))
	case viewPending:
		return a.withSpinner(a.pending.load(a.ctx))
	}
	return nil
}

func (a *App) withSpinner(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, a.spinner.Tick)
}

// busy reports whether anything on screen is waiting on the network.
func (a *App) busy() bool {
	if a.form != nil && (a.form.loading || a.form.submitting) {
		return true
	}
	if a.projects.snapshot().Loading() || a.donations.snapshot().Loading() ||
		a.topups.snapshot().Loading() || a.pending.snapshot().Loading() {
		return true
	}
	if a.services.Reviewer != nil {
		for _, acct := range a.pending.snapshot().Data {
			if a.services.Reviewer.Busy(acct.ID) {
				return true
			}
		}
	}
	return false
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.help.Width = m.Width
	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(m)
	case loadedMsg[repository.Project]:
		a.loadDone(a.projects.apply(m.res), m.res.Err)
	case loadedMsg[repository.Donation]:
		a.loadDone(a.donations.apply(m.res), m.res.Err)
	case loadedMsg[repository.WalletTransaction]:
		a.loadDone(a.topups.apply(m.res), m.res.Err)
	case loadedMsg[repository.PendingAccount]:
		a.loadDone(a.pending.apply(m.res), m.res.Err)
	case projectLoadedMsg:
		a.projectLoaded(m)
	case projectSavedMsg:
		return a, a.projectSaved(m)
	case decisionMsg:
		return a, a.decided(m)
	case statusMsg:
		a.setStatus(string(m), false)
	case errMsg:
		a.setStatus(userMessage(m.error), true)
	}
	return a, nil
}

func (a *App) loadDone(applied bool, err error) {
	if applied && err != nil {
		a.setStatus(userMessage(err), true)
	}
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case viewAddProject, viewEditProject:
		return a, a.handleFormKey(m)
	case viewProjects:
		return a, listKey(a, a.projects, m, a.projectKey)
	case viewDonations:
		return a, listKey(a, a.donations, m, nil)
	case viewTopUps:
		return a, listKey(a, a.topups, m, nil)
	case viewPending:
		return a, listKey(a, a.pending, m, a.pendingKey)
	default:
		return a, a.dashboardKey(m)
	}
}

func (a *App) dashboardKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.menuCursor < len(dashboardMenu)-1 {
			a.menuCursor++
		}
	case key.Matches(m, a.keys.Enter):
		return a.open(dashboardMenu[a.menuCursor].target)
	}
	return nil
}

// listKey handles the keys every list view shares, then defers to extra.
func listKey[T any](a *App, l *listView[T], m tea.KeyMsg, extra func(tea.KeyMsg) tea.Cmd) tea.Cmd {
	if l.filtering {
		return l.updateFilter(m)
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Back):
		if l.filter.Value() != "" {
			l.filter.SetValue("")
			l.clamp()
			return nil
		}
		a.state = viewDashboard
		a.status = ""
	case key.Matches(m, a.keys.Up):
		l.move(-1)
	case key.Matches(m, a.keys.Down):
		l.move(1)
	case key.Matches(m, a.keys.Refresh):
		return a.withSpinner(l.load(a.ctx))
	case key.Matches(m, a.keys.Filter):
		l.openFilter()
	case extra != nil:
		return extra(m)
	}
	return nil
}

func (a *App) projectKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.New):
		a.openForm(newProjectForm(service.ProjectForm{}, false))
		a.state = viewAddProject
		a.status = ""
	case key.Matches(m, a.keys.Edit), key.Matches(m, a.keys.Enter):
		p, ok := a.projects.selected()
		if !ok {
			return nil
		}
		a.openForm(newProjectForm(service.ProjectForm{ID: p.ID, Status: p.Status}, true))
		a.form.loading = true
		a.state = viewEditProject
		a.status = ""
		return a.withSpinner(a.fetchProjectCmd(p.ID))
	}
	return nil
}

func (a *App) pendingKey(m tea.KeyMsg) tea.Cmd {
	var action service.Action
	switch {
	case key.Matches(m, a.keys.Approve):
		action = service.ActionApprove
	case key.Matches(m, a.keys.Reject):
		action = service.ActionReject
	default:
		return nil
	}
	acct, ok := a.pending.selected()
	if !ok {
		return nil
	}
	if !acct.Status.Pending() {
		a.setStatus(fmt.Sprintf("Account %d is already %s.", acct.ID, acct.Status), true)
		return nil
	}
	rv, err := a.services.Reviewer.Reserve(acct, action)
	if err != nil {
		a.setStatus(userMessage(err), true)
		return nil
	}
	a.status = ""
	return a.withSpinner(a.decideCmd(rv))
}

// openForm installs f with a fresh token so replies meant for an earlier
// form can be told apart.
func (a *App) openForm(f *projectForm) {
	a.forms++
	f.token = a.forms
	a.form = f
}

func (a *App) handleFormKey(m tea.KeyMsg) tea.Cmd {
	f := a.form
	switch {
	case key.Matches(m, a.formKeys.Cancel):
		a.form = nil
		a.state = viewProjects
		return nil
	case key.Matches(m, a.formKeys.Submit):
		if !f.canSubmit() {
			return nil
		}
		f.submitting = true
		a.status = ""
		return a.withSpinner(a.saveProjectCmd(f.token, f.value(), f.edit))
	}
	return f.update(m, a.formKeys)
}

func (a *App) projectLoaded(m projectLoadedMsg) {
	if a.state != viewEditProject || a.form == nil || a.form.id != m.id {
		return
	}
	if m.err != nil {
		a.form = nil
		a.state = viewProjects
		a.setStatus(userMessage(m.err), true)
		return
	}
	a.form.fill(m.project)
}

func (a *App) projectSaved(m projectSavedMsg) tea.Cmd {
	if a.form == nil || a.form.token != m.form {
		// The form was closed while saving; report without navigating.
		if m.err != nil {
			a.setStatus(userMessage(m.err), true)
			return nil
		}
		a.setStatus(m.ack.Message, false)
		return a.withSpinner(a.projects.load(a.ctx))
	}
	a.form.submitting = false
	if m.err != nil {
		a.setStatus(userMessage(m.err), true)
		return nil
	}
	a.form = nil
	a.state = viewProjects
	a.setStatus(m.ack.Message, false)
	return a.withSpinner(a.projects.load(a.ctx))
}

func (a *App) decided(m decisionMsg) tea.Cmd {
	if m.err != nil {
		a.setStatus(fmt.Sprintf("account %d: %s", m.id, userMessage(m.err)), true)
		return nil
	}
	a.setStatus(m.ack.Message, false)
	return a.withSpinner(a.pending.load(a.ctx))
}

// commands
func (a *App) fetchProjectCmd(id repository.ID) tea.Cmd {
	return func() tea.Msg {
		p, err := a.repos.Projects.Get(a.ctx, id)
		return projectLoadedMsg{id: id, project: p, err: err}
	}
}

func (a *App) saveProjectCmd(token int, f service.ProjectForm, edit bool) tea.Cmd {
	svc := a.services.Projects
	return func() tea.Msg {
		var (
			ack repository.Ack
			err error
		)
		if edit {
			ack, err = svc.Update(a.ctx, f)
		} else {
			ack, err = svc.Create(a.ctx, f)
		}
		return projectSavedMsg{form: token, edit: edit, ack: ack, err: err}
	}
}

func (a *App) decideCmd(rv *service.Review) tea.Cmd {
	return func() tea.Msg {
		ack, err := rv.Submit(a.ctx)
		return decisionMsg{id: rv.AccountID(), action: rv.Action(), ack: ack, err: err}
	}
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewProjects:
		body = a.renderProjects()
	case viewAddProject, viewEditProject:
		body = a.form.view(a.theme, a.formKeys, a.spinner.View())
	case viewDonations:
		body = a.renderDonations()
	case viewTopUps:
		body = a.renderTopUps()
	case viewPending:
		body = a.renderPending()
	default:
		body = a.renderDashboard()
	}
	if a.state != viewAddProject && a.state != viewEditProject {
		body += "\n\n" + a.help.ShortHelpView(a.keys.bindings(a.state))
	}
	if a.status != "" {
		style := a.theme.Good
		if a.statusErr {
			style = a.theme.Bad
		}
		body += "\n" + style.Render(a.status)
	}
	return body
}

var _ tea.Model = (*App)(nil)
