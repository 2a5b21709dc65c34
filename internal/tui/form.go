package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fundadmin/internal/repository"
	"github.com/jask/fundadmin/internal/service"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldTarget
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Target amount", "Image path"}

// projectForm backs the add and edit screens.
type projectForm struct {
	token      int
	edit       bool
	id         repository.ID
	status     repository.ProjectStatus
	inputs     []textinput.Model
	focus      int
	loading    bool
	submitting bool
}

func newProjectForm(f service.ProjectForm, edit bool) *projectForm {
	values := [fieldCount]string{f.Title, f.Description, f.TargetAmount, f.ImagePath}
	inputs := make([]textinput.Model, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		inp := textinput.New()
		inp.Prompt = fieldLabels[i] + ": "
		inp.SetValue(values[i])
		if i == 0 {
			inp.Focus()
		}
		inputs = append(inputs, inp)
	}
	inputs[fieldTarget].Placeholder = "0.00"
	inputs[fieldImage].Placeholder = "optional"
	status := f.Status
	if status == "" {
		status = repository.ProjectActive
	}
	return &projectForm{edit: edit, id: f.ID, status: status, inputs: inputs}
}

// fill replaces every field with p, used once the edit target arrives.
func (f *projectForm) fill(p repository.Project) {
	v := service.FormFromProject(p)
	f.id = v.ID
	f.status = v.Status
	f.inputs[fieldTitle].SetValue(v.Title)
	f.inputs[fieldDescription].SetValue(v.Description)
	f.inputs[fieldTarget].SetValue(v.TargetAmount)
	f.loading = false
}

func (f *projectForm) value() service.ProjectForm {
	return service.ProjectForm{
		ID:           f.id,
		Title:        f.inputs[fieldTitle].Value(),
		Description:  f.inputs[fieldDescription].Value(),
		TargetAmount: f.inputs[fieldTarget].Value(),
		Status:       f.status,
		ImagePath:    strings.TrimSpace(f.inputs[fieldImage].Value()),
	}
}

// canSubmit gates the submit key.
func (f *projectForm) canSubmit() bool {
	return !f.loading && !f.submitting && f.value().Valid()
}

func (f *projectForm) toggleStatus() {
	if f.status == repository.ProjectInactive {
		f.status = repository.ProjectActive
		return
	}
	f.status = repository.ProjectInactive
}

func (f *projectForm) moveFocus(dir int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update handles navigation and editing keys. Submit and cancel are the
// caller's job.
func (f *projectForm) update(msg tea.Msg, keys formKeyMap) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Next):
			f.moveFocus(1)
			return nil
		case key.Matches(km, keys.Prev):
			f.moveFocus(-1)
			return nil
		case key.Matches(km, keys.Status):
			if f.edit {
				f.toggleStatus()
			}
			return nil
		}
	}
	if f.loading {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *projectForm) view(th Theme, keys formKeyMap, spin string) string {
	title := "Add Project"
	if f.edit {
		title = "Edit Project"
	}
	lines := []string{th.Title.Render(title)}
	if f.loading {
		lines = append(lines, spin+" loading project…")
		return strings.Join(lines, "\n")
	}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	if f.edit {
		st := th.Good.Render(string(f.status))
		if f.status == repository.ProjectInactive {
			st = th.Warn.Render(string(f.status))
		}
		lines = append(lines, "Status: "+st)
	}
	submit := keys.Submit.Help()
	hint := submit.Key + ": " + submit.Desc
	switch {
	case f.submitting:
		hint = th.Dim.Render(spin + " saving…")
	case f.canSubmit():
		hint = th.Cursor.Render(hint)
	default:
		hint = th.Dim.Render(hint)
	}
	rest := []string{"tab: next field", "esc: cancel"}
	if f.edit {
		rest = append(rest, "ctrl+t: toggle status")
	}
	lines = append(lines, "", hint+"  "+th.Dim.Render(strings.Join(rest, "  ")))
	return strings.Join(lines, "\n")
}
