package tui

import (
	"fmt"
	"strings"

	"github.com/jask/fundadmin/internal/repository"
	"github.com/jask/fundadmin/internal/service"
)

func (a *App) renderDashboard() string {
	items := make([]string, 0, len(dashboardMenu))
	for i, item := range dashboardMenu {
		if i == a.menuCursor {
			items = append(items, a.theme.Cursor.Render("▶ ")+a.theme.Selected.Render(item.label))
			continue
		}
		items = append(items, "  "+a.theme.Body.Render(item.label))
	}
	return a.theme.Title.Render("Fund Admin Dashboard") + "\n" + a.theme.Box.Render(strings.Join(items, "\n"))
}

// renderList draws the shared chrome of a list view around the rows. header
// goes between the title and the rows.
func renderList[T any](a *App, l *listView[T], header string, row func(T) string) string {
	lines := []string{a.theme.Title.Render(l.title)}
	if header != "" {
		lines = append(lines, header)
	}
	if l.filtering || l.filter.Value() != "" {
		lines = append(lines, l.filter.View())
	}
	snap := l.snapshot()
	if snap.Loading() {
		lines = append(lines, a.spinner.View()+" loading…")
	}
	rows := l.rows()
	switch {
	case len(rows) == 0 && snap.Loading():
	case len(rows) == 0 && l.filter.Value() != "" && !snap.Empty():
		lines = append(lines, a.theme.Dim.Render("No matches."))
	case len(rows) == 0:
		lines = append(lines, a.theme.Dim.Render(l.empty))
	}
	for i, r := range rows {
		marker := "  "
		text := row(r)
		if i == l.cursor {
			marker = a.theme.Cursor.Render("▶ ")
			text = a.theme.Selected.Render(text)
		}
		lines = append(lines, marker+text)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderProjects() string {
	return renderList(a, a.projects, "", func(p repository.Project) string {
		status := a.theme.Good.Render(string(p.Status.Normalize()))
		if p.Status.Normalize() == repository.ProjectInactive {
			status = a.theme.Warn.Render(string(repository.ProjectInactive))
		}
		return fmt.Sprintf("%-5s %s %16s  %s", p.ID.String(), padRight(truncate(p.Title, 34), 34), formatMoney(a.currency, p.TargetAmount.Decimal), status)
	})
}

func (a *App) renderDonations() string {
	snap := a.donations.snapshot()
	totals := a.totals.Totals(snap.Version, snap.Data)
	var header string
	if len(totals) > 0 {
		hl := []string{a.theme.Header.Render("Totals by project")}
		for _, t := range totals {
			hl = append(hl, fmt.Sprintf("  %s %16s", padRight(truncate(t.ProjectTitle, 34), 34), formatMoney(a.currency, t.Total)))
		}
		hl = append(hl, a.theme.Header.Render(fmt.Sprintf("  %s %16s", padRight("All projects", 34), formatMoney(a.currency, service.GrandTotal(totals)))), "")
		header = strings.Join(hl, "\n")
	}
	return renderList(a, a.donations, header, func(d repository.Donation) string {
		var outcome string
		switch d.Outcome() {
		case repository.DonationSuccessful:
			outcome = a.theme.Good.Render(d.DonationStatus)
		case repository.DonationPending:
			outcome = a.theme.Warn.Render(d.DonationStatus)
		default:
			outcome = a.theme.Bad.Render(d.DonationStatus)
		}
		return fmt.Sprintf("%-6s %s %s %16s  %s  %s",
			d.DonationID.String(),
			padRight(truncate(d.UserName, 18), 18),
			padRight(truncate(d.ProjectTitle, 28), 28),
			formatMoney(a.currency, d.Amount.Decimal),
			d.CreatedAt,
			outcome)
	})
}

func (a *App) renderTopUps() string {
	return renderList(a, a.topups, "", func(t repository.WalletTransaction) string {
		return fmt.Sprintf("%-6s %s %16s  %-8s %-8s %s",
			t.ID.String(),
			padRight(truncate(t.UserName, 18), 18),
			formatMoney(a.currency, t.Amount.Decimal),
			t.Type, t.Method, t.CreatedAt)
	})
}

func (a *App) renderPending() string {
	return renderList(a, a.pending, "", func(p repository.PendingAccount) string {
		var state string
		switch {
		case p.Status.Pending():
			state = a.theme.Warn.Render(string(p.Status))
		case strings.EqualFold(string(p.Status), string(repository.AccountApproved)):
			state = a.theme.Good.Render(string(p.Status))
		case strings.EqualFold(string(p.Status), string(repository.AccountRejected)):
			state = a.theme.Bad.Render(string(p.Status))
		case p.Status == "":
			state = a.theme.Dim.Render("unknown")
		default:
			state = a.theme.Dim.Render(string(p.Status))
		}
		if a.services.Reviewer != nil && a.services.Reviewer.Busy(p.ID) {
			state = a.theme.Dim.Render(a.spinner.View() + " processing…")
		}
		return fmt.Sprintf("%-5s %s %-16s %-6s %s",
			p.ID.String(),
			padRight(truncate(p.UserName, 18), 18),
			p.AccountNumber, p.Provider, state)
	})
}
