package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/web3-frozen/todo-board/internal/i18n"
	"github.com/web3-frozen/todo-board/internal/model"
)

// listItem adapts model.Todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders one todo per line.
type itemDelegate struct {
	theme Theme
	tr    *i18n.Translator
	now   func() time.Time
}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	fmt.Fprint(w, RenderItem(d.theme, d.tr, it.todo, index == m.Index(), d.now()))
}

// RenderItem draws a todo: checkbox, star, title, priority badge, overdue
// badge, due date and tag chips.
func RenderItem(th Theme, tr *i18n.Translator, todo model.Todo, selected bool, now time.Time) string {
	box := th.Muted.Render(boxUnchecked)
	title := todo.Title
	if todo.Completed {
		box = th.Success.Render(boxChecked)
		title = th.Done.Render(title)
	}
	star := th.Muted.Render(starOff)
	if todo.Starred {
		star = th.Star.Render(starOn)
	}

	parts := []string{box, star, title, priorityBadge(th, tr, todo.Priority)}
	if todo.IsOverdue(now) {
		parts = append(parts, th.Overdue.Render("! "+tr.T("overdueWarning")))
	}
	if todo.DueDate != nil {
		parts = append(parts, th.Muted.Render(todo.DueDate.In(now.Location()).Format(dateLayout)))
	}
	for _, tag := range todo.Tags {
		parts = append(parts, th.Tag.Render("#"+tag))
	}

	prefix := "  "
	if selected {
		prefix = th.Selected.Render("> ")
	}
	return prefix + strings.Join(parts, " ")
}

func priorityBadge(th Theme, tr *i18n.Translator, p model.Priority) string {
	label := tr.T(strings.ToLower(string(p)))
	switch p {
	case model.PriorityHigh:
		return th.High.Render(label)
	case model.PriorityLow:
		return th.Low.Render(label)
	}
	return th.Medium.Render(label)
}
