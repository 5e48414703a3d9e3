package ui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/web3-frozen/todo-board/internal/i18n"
	"github.com/web3-frozen/todo-board/internal/model"
)

const dateLayout = "2006-01-02"

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldDue
	fieldTag
	fieldCount
)

// submitMsg carries either a create or an update, depending on the form
// mode.
type submitMsg struct {
	id     int64
	create *model.CreateTodoRequest
	update *model.UpdateTodoRequest
}

type cancelMsg struct{}

// Form collects a todo. editID is zero in create mode.
type Form struct {
	editID   int64
	title    textinput.Model
	desc     textinput.Model
	due      textinput.Model
	tag      textinput.Model
	priority model.Priority
	tags     []string
	focus    formField
	errKey   string
	tr       *i18n.Translator
}

func NewForm(tr *i18n.Translator) Form {
	f := Form{
		title:    newInput(tr.T("todoPlaceholder"), 255),
		desc:     newInput(tr.T("descriptionPlaceholder"), 4000),
		due:      newInput(tr.T("dueDatePlaceholder"), len(dateLayout)),
		tag:      newInput(tr.T("addTag"), 64),
		priority: model.PriorityMedium,
		tags:     []string{},
		tr:       tr,
	}
	f.setFocus(fieldTitle)
	return f
}

// EditForm pre-populates a form from todo; due dates are shown in loc.
func EditForm(tr *i18n.Translator, todo model.Todo, loc *time.Location) Form {
	f := NewForm(tr)
	f.editID = todo.ID
	f.title.SetValue(todo.Title)
	f.title.CursorEnd()
	f.desc.SetValue(todo.Description)
	if todo.DueDate != nil {
		f.due.SetValue(todo.DueDate.In(loc).Format(dateLayout))
	}
	if _, ok := model.ParsePriority(string(todo.Priority)); ok {
		f.priority = todo.Priority
	}
	f.tags = slices.Clone(model.NormalizeTags(todo.Tags))
	return f
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

func (f Form) Editing() bool { return f.editID != 0 }

// AddTag appends tag unless it is blank or already present.
func (f *Form) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(f.tags, tag) {
		return
	}
	f.tags = append(f.tags, tag)
}

func (f *Form) cyclePriority(step int) {
	n := len(model.ValidPriorities)
	i := slices.Index(model.ValidPriorities, f.priority)
	f.priority = model.ValidPriorities[((i+step)%n+n)%n]
}

func (f *Form) setFocus(field formField) {
	f.focus = (field%fieldCount + fieldCount) % fieldCount
	for _, in := range []*textinput.Model{&f.title, &f.desc, &f.due, &f.tag} {
		in.Blur()
	}
	if in := f.input(f.focus); in != nil {
		in.Focus()
	}
}

func (f *Form) input(field formField) *textinput.Model {
	switch field {
	case fieldTitle:
		return &f.title
	case fieldDescription:
		return &f.desc
	case fieldDue:
		return &f.due
	case fieldTag:
		return &f.tag
	}
	return nil
}

// Submit validates the form. It returns a translation key when the input
// is rejected. A tag still in the input box is included.
func (f *Form) Submit(loc *time.Location) (submitMsg, string) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return submitMsg{}, "titleRequired"
	}
	due, err := ParseDueDate(f.due.Value(), loc)
	if err != nil {
		return submitMsg{}, "invalidDueDate"
	}
	f.AddTag(f.tag.Value())
	f.tag.SetValue("")

	desc := f.desc.Value()
	tags := slices.Clone(f.tags)
	priority := f.priority

	if !f.Editing() {
		return submitMsg{create: &model.CreateTodoRequest{
			Title:       title,
			Description: desc,
			Priority:    priority,
			DueDate:     due,
			Tags:        tags,
		}}, ""
	}
	req := &model.UpdateTodoRequest{
		Title:        &title,
		Description:  &desc,
		Priority:     &priority,
		DueDate:      due,
		ClearDueDate: due == nil,
		Tags:         &tags,
	}
	return submitMsg{id: f.editID, update: req}, ""
}

// ParseDueDate reads a YYYY-MM-DD date as the last second of that day in
// loc. Blank input means no due date.
func ParseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, err
	}
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc)
	return &end, nil
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return f, func() tea.Msg { return cancelMsg{} }
		case "ctrl+s":
			out, errKey := f.Submit(time.Local)
			if errKey != "" {
				f.errKey = errKey
				return f, nil
			}
			f.errKey = ""
			return f, func() tea.Msg { return out }
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil
		case "enter":
			if f.focus == fieldTag {
				f.AddTag(f.tag.Value())
				f.tag.SetValue("")
				return f, nil
			}
			f.setFocus(f.focus + 1)
			return f, nil
		case "left", "right", " ":
			if f.focus == fieldPriority {
				step := 1
				if k.String() == "left" {
					step = -1
				}
				f.cyclePriority(step)
				return f, nil
			}
		case "backspace":
			if f.focus == fieldTag && f.tag.Value() == "" && len(f.tags) > 0 {
				f.tags = f.tags[:len(f.tags)-1]
				return f, nil
			}
		}
	}

	in := f.input(f.focus)
	if in == nil {
		return f, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd
}

func (f Form) View(th Theme) string {
	heading := f.tr.T("addTodo")
	if f.Editing() {
		heading = f.tr.T("editTodo")
	}

	label := func(field formField, key string) string {
		if f.focus == field {
			return th.Active.Render(f.tr.T(key))
		}
		return th.Muted.Render(f.tr.T(key))
	}

	prio := priorityBadge(th, f.tr, f.priority)
	if f.focus == fieldPriority {
		prio = th.Accent.Render("‹ ") + prio + th.Accent.Render(" ›")
	}

	chips := make([]string, 0, len(f.tags))
	for _, tag := range f.tags {
		chips = append(chips, th.Tag.Render("#"+tag))
	}

	lines := []string{
		th.Title.Render(heading),
		"",
		f.title.View(),
		label(fieldDescription, "descriptionPlaceholder"),
		f.desc.View(),
		label(fieldPriority, "priority") + " " + prio,
		label(fieldDue, "dueDate"),
		f.due.View(),
		label(fieldTag, "tags") + " " + strings.Join(chips, " "),
		f.tag.View(),
	}
	if f.errKey != "" {
		lines = append(lines, th.Error.Render(f.tr.T(f.errKey)))
	}
	lines = append(lines, "", th.Help.Render(f.tr.T("formHelp")))
	return th.Panel.Render(strings.Join(lines, "\n"))
}
