package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/web3-frozen/todo-board/internal/i18n"
	"github.com/web3-frozen/todo-board/internal/model"
)

// RenderStats draws the statistics panel, or nothing before the first
// snapshot arrives.
func RenderStats(th Theme, tr *i18n.Translator, s *model.Statistics) string {
	if s == nil {
		return ""
	}
	cell := func(label string, n int64, style lipgloss.Style) string {
		return fmt.Sprintf("%s %s", th.Muted.Render(label), style.Render(fmt.Sprint(n)))
	}
	row := strings.Join([]string{
		cell(tr.T("totalTasks"), s.Total, th.Accent),
		cell(tr.T("active"), s.Active, th.Pending),
		cell(tr.T("completed"), s.Completed, th.Success),
		cell(tr.T("highPriority"), s.HighPriority, th.Error),
		cell(tr.T("starred"), s.Starred, th.Star),
		cell(tr.T("overdue"), s.Overdue, th.Error),
	}, "   ")
	return th.Panel.Render(row + "\n" + progressBar(s.Completed, s.Total, 28))
}

func progressBar(done, total int64, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	pct := int(float64(done) / float64(total) * 100)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %3d%%", pct)
}
