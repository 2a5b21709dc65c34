package tui

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jask/fundadmin/internal/config"
	"github.com/jask/fundadmin/internal/fakeapi"
	"github.com/jask/fundadmin/internal/gateway"
	"github.com/jask/fundadmin/internal/repository"
	"github.com/jask/fundadmin/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

type harness struct {
	t   *testing.T
	b   *fakeapi.Backend
	app *App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := fakeapi.NewSeeded()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	quiet := log.New(io.Discard, "", 0)
	gw, err := gateway.New(srv.URL, gateway.WithLogger(quiet))
	require.NoError(t, err)

	sub := &service.Submitter{Gateway: gw}
	cfg := config.Config{UI: config.UIConfig{CurrencySymbol: "₱", Theme: config.DefaultTheme()}}
	app := New(context.Background(), cfg,
		Repos{
			Projects:  repository.NewProjectRepo(gw),
			Donations: repository.NewDonationRepo(gw),
			TopUps:    repository.NewTopUpRepo(gw),
			Accounts:  repository.NewAccountRepo(gw),
		},
		Services{
			Projects: &service.ProjectService{Submitter: sub, Log: quiet},
			Reviewer: &service.AccountReviewer{Submitter: sub},
		})
	app.SetLogger(quiet)
	return &harness{t: t, b: b, app: app}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// collect runs cmd and every batched command, without feeding results back.
// Spinner ticks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			out = append(out, m)
		}
	}
	return out
}

// drain runs cmd and feeds each message back into the app until idle.
func (h *harness) drain(cmd tea.Cmd) {
	h.t.Helper()
	pending := collect(cmd)
	for len(pending) > 0 {
		msg := pending[0]
		pending = pending[1:]
		_, next := h.app.Update(msg)
		pending = append(pending, collect(next)...)
	}
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		_, cmd := h.app.Update(keyMsg(k))
		h.drain(cmd)
	}
}

// typeText sends runes to the focused input. The cursor blink commands it
// returns are discarded.
func (h *harness) typeText(s string) {
	for _, r := range s {
		h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestDashboardOpensProjects(t *testing.T) {
	h := newHarness(t)
	require.Contains(t, h.app.View(), "Manage Projects")

	h.press("enter")
	require.Equal(t, viewProjects, h.app.state)
	out := h.app.View()
	require.Contains(t, out, "Clean Water for Barangay Uno")
	require.Contains(t, out, "₱150,000.00")
	require.Contains(t, out, "inactive")

	h.press("esc")
	require.Equal(t, viewDashboard, h.app.state)
}

func TestDonationsTotalsRecomputeOnlyOnReload(t *testing.T) {
	h := newHarness(t)
	h.press("down", "enter")
	require.Equal(t, viewDonations, h.app.state)

	out := h.app.View()
	require.Contains(t, out, "Totals by project")
	require.Contains(t, out, "₱1,750.50")
	require.Contains(t, out, "₱3,250.50")
	require.Contains(t, out, "Maria Santos")
	h.app.View()
	require.Equal(t, 1, h.app.totals.Computes())

	h.b.AddDonation(repository.Donation{DonationID: 105, UserName: "Dan Uy", ProjectTitle: "School Supplies Drive", Amount: repository.NewMoney("100"), DonationStatus: "Successful"})
	h.press("r")
	out = h.app.View()
	require.Equal(t, 2, h.app.totals.Computes())
	require.Contains(t, out, "₱600.00")
}

func TestFailedLoadShowsEmptyState(t *testing.T) {
	h := newHarness(t)
	h.b.Override(repository.PathListTopUps, 500, "Fatal error: Uncaught mysqli_sql_exception")

	h.press("down", "down", "enter")
	require.Equal(t, viewTopUps, h.app.state)
	out := h.app.View()
	require.Contains(t, out, "No top-ups found.")
	require.Equal(t, "Invalid response from server", h.app.status)
	require.True(t, h.app.statusErr)

	h.b.Override(repository.PathListTopUps, 0, "")
	h.press("r")
	require.Contains(t, h.app.View(), "Jose Reyes")
}

func TestFailedReloadKeepsLastGoodList(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.b.Override(repository.PathListProjects, 200, "<b>Warning</b>: mysqli_connect()")
	h.press("r")

	require.Equal(t, "Invalid response from server", h.app.status)
	require.Contains(t, h.app.View(), "School Supplies Drive")
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	_, first := h.app.Update(keyMsg("r"))
	stale := collect(first)
	h.b.AddProject(repository.Project{Title: "Mangrove Planting", Description: "x", TargetAmount: repository.NewMoney("1")})
	_, second := h.app.Update(keyMsg("r"))
	fresh := collect(second)

	for _, m := range fresh {
		h.app.Update(m)
	}
	for _, m := range stale {
		h.app.Update(m)
	}
	require.Contains(t, h.app.View(), "Mangrove Planting")
}

func TestAddProjectFlow(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "n")
	require.Equal(t, viewAddProject, h.app.state)
	require.False(t, h.app.form.canSubmit())

	h.press("enter")
	require.Equal(t, viewAddProject, h.app.state, "submit is ignored while incomplete")
	require.Zero(t, h.b.Calls(repository.PathCreateProject))

	h.typeText("Mangrove Planting")
	h.press("tab")
	h.typeText("Coastal replanting")
	h.press("tab")
	h.typeText("12000.50")
	require.True(t, h.app.form.canSubmit())

	h.press("enter")
	require.Equal(t, viewProjects, h.app.state)
	require.Nil(t, h.app.form)
	require.Equal(t, "Project Added Successfully!", h.app.status)
	require.Contains(t, h.app.View(), "Mangrove Planting")
	require.Equal(t, "json", h.b.LastForm(repository.PathCreateProject)["_encoding"])
}

func TestAddDuplicateStaysOnForm(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "n")
	h.typeText("School Supplies Drive")
	h.press("tab")
	h.typeText("again")
	h.press("tab")
	h.typeText("10")
	h.press("enter")

	require.Equal(t, viewAddProject, h.app.state)
	require.Equal(t, "Duplicate title", h.app.status)
	require.Equal(t, "School Supplies Drive", h.app.form.value().Title)
	require.False(t, h.app.form.submitting)
}

func TestLateSaveLeavesNewFormOpen(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "n")
	h.typeText("Mangrove Planting")
	h.press("tab")
	h.typeText("Coastal replanting")
	h.press("tab")
	h.typeText("12000")

	// The save reply is delivered only after the form was replaced.
	_, save := h.app.Update(keyMsg("enter"))
	h.press("esc", "n")
	h.typeText("Draft")
	h.drain(save)

	require.Equal(t, viewAddProject, h.app.state)
	require.NotNil(t, h.app.form)
	require.Equal(t, "Draft", h.app.form.value().Title)
	require.Equal(t, "Project Added Successfully!", h.app.status)
	require.Contains(t, h.app.renderProjects(), "Mangrove Planting")
}

func TestEditProjectFlow(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "e")
	require.Equal(t, viewEditProject, h.app.state)
	require.False(t, h.app.form.loading)
	require.Equal(t, "Clean Water for Barangay Uno", h.app.form.value().Title)
	require.Equal(t, "150000", h.app.form.value().TargetAmount)

	h.press("ctrl+t")
	require.Equal(t, repository.ProjectInactive, h.app.form.status)
	h.press("enter")

	require.Equal(t, viewProjects, h.app.state)
	require.Equal(t, "Project updated successfully", h.app.status)
	require.Equal(t, repository.ProjectInactive, h.b.Projects()[0].Status)
}

func TestEditMissingOrBrokenProject(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	h.b.Override(repository.PathGetProject, 200, "[]")
	h.press("e")
	require.Equal(t, viewProjects, h.app.state)
	require.Equal(t, "Project not found", h.app.status)

	h.b.Override(repository.PathGetProject, 200, "Notice: Undefined index id")
	h.press("e")
	require.Equal(t, viewProjects, h.app.state)
	require.Equal(t, "Invalid response from server", h.app.status)
}

func TestPendingDecisionsArePerAccount(t *testing.T) {
	h := newHarness(t)
	h.press("down", "down", "down", "enter")
	require.Equal(t, viewPending, h.app.state)

	release := h.b.Hold(repository.PathDecideAccount)
	defer release()

	_, approve := h.app.Update(keyMsg("a"))
	require.Contains(t, h.app.View(), "processing…")

	h.app.Update(keyMsg("x"))
	require.Equal(t, "Request already in progress.", h.app.status)

	h.app.Update(keyMsg("down"))
	_, reject := h.app.Update(keyMsg("x"))
	require.NotNil(t, reject)

	release()
	h.drain(approve)
	h.drain(reject)

	out := h.app.View()
	require.NotContains(t, out, "Ana Cruz")
	require.NotContains(t, out, "Ben Lim")
	require.Contains(t, out, "Carla Dizon")
	acct, _ := h.b.Account(7)
	require.Equal(t, repository.AccountApproved, acct.Status)
	acct, _ = h.b.Account(8)
	require.Equal(t, repository.AccountRejected, acct.Status)
}

func TestDecidedAccountsShowStatusAndRefuseActions(t *testing.T) {
	h := newHarness(t)
	h.b.Override(repository.PathListPending, 200,
		`[{"id":7,"user_name":"Ana Cruz","account_number":"0917","provider":"gcash","status":"approved"},`+
			`{"id":8,"user_name":"Ben Lim","account_number":"0012","provider":"bank","status":"pending"}]`)
	h.press("down", "down", "down", "enter")

	row := func(name string) string {
		for _, line := range strings.Split(h.app.View(), "\n") {
			if strings.Contains(line, name) {
				return line
			}
		}
		return ""
	}
	require.Contains(t, row("Ana Cruz"), "approved")
	require.NotContains(t, row("Ana Cruz"), "pending")
	require.Contains(t, row("Ben Lim"), "pending")

	h.press("x")
	require.Zero(t, h.b.Calls(repository.PathDecideAccount))
	require.Equal(t, "Account 7 is already approved.", h.app.status)
	require.True(t, h.app.statusErr)
	require.False(t, h.app.services.Reviewer.Busy(7))
}

func TestListFilter(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "/")
	h.typeText("typhon")
	h.press("enter")

	out := h.app.View()
	require.Contains(t, out, "Typhoon Relief Packs")
	require.NotContains(t, out, "School Supplies Drive")

	h.press("esc")
	require.Contains(t, h.app.View(), "School Supplies Drive")
	require.Equal(t, viewProjects, h.app.state)
}

func TestRankRows(t *testing.T) {
	t.Parallel()

	rows := []string{"School Supplies Drive", "Clean Water", "Water Tanks", "Solar Lamps"}
	id := func(s string) string { return s }

	require.Equal(t, rows, rankRows(rows, "  ", id))
	require.Equal(t, []string{"Clean Water", "Water Tanks"}, rankRows(rows, "water", id))
	require.Equal(t, []string{"School Supplies Drive"}, rankRows(rows, "scool", id))
	require.Empty(t, rankRows(rows, "zzzzzz", id))
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"0":         "₱0.00",
		"999":       "₱999.00",
		"1000":      "₱1,000.00",
		"1234567.5": "₱1,234,567.50",
		"-2500.25":  "-₱2,500.25",
	}
	for in, want := range cases {
		got := formatMoney("₱", repository.NewMoney(in).Decimal)
		if got != want {
			t.Fatalf("formatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}
