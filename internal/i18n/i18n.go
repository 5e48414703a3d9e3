// Package i18n holds the English and Chinese strings of the terminal client.
package i18n

import "strings"

type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

var Supported = []Locale{English, Chinese}

// Parse returns the locale for code, or English when code is unknown.
func Parse(code string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(code))) {
	case Chinese:
		return Chinese
	}
	return English
}

// Next cycles to the other supported locale.
func (l Locale) Next() Locale {
	if l == Chinese {
		return English
	}
	return Chinese
}

// Translator looks up strings for one locale. A missing key renders as the
// key itself.
type Translator struct {
	locale Locale
	table  map[string]string
}

func New(locale Locale) *Translator {
	table, ok := tables[locale]
	if !ok {
		locale, table = English, tables[English]
	}
	return &Translator{locale: locale, table: table}
}

func (t *Translator) Locale() Locale { return t.locale }

func (t *Translator) T(key string) string {
	if s, ok := t.table[key]; ok {
		return s
	}
	return key
}

var tables = map[Locale]map[string]string{
	English: {
		"appTitle":               "My Tasks",
		"appSubtitle":            "Organize your life, one task at a time",
		"totalTasks":             "Total Tasks",
		"active":                 "Active",
		"completed":              "Completed",
		"highPriority":           "High Priority",
		"starred":                "Starred",
		"overdue":                "Overdue",
		"all":                    "All",
		"today":                  "Today",
		"high":                   "High",
		"medium":                 "Medium",
		"low":                    "Low",
		"priority":               "Priority",
		"todoPlaceholder":        "What needs to be done?",
		"descriptionPlaceholder": "Description (optional)",
		"dueDate":                "Due Date",
		"dueDatePlaceholder":     "YYYY-MM-DD",
		"tags":                   "Tags",
		"addTag":                 "Add a tag",
		"addTagButton":           "Add",
		"moreOptions":            "More options",
		"lessOptions":            "Less options",
		"addTodo":                "Add Todo",
		"editTodo":               "Edit Todo",
		"saveChanges":            "Save",
		"cancel":                 "Cancel",
		"searchPlaceholder":      "Search todos...",
		"noTodos":                "No todos yet. Create one to get started!",
		"noMatching":             "No matching todos found",
		"loading":                "Loading...",
		"errorLoad":              "Failed to load todos. Make sure the backend is running on port 3011.",
		"errorAdd":               "Failed to add todo",
		"errorUpdate":            "Failed to update todo",
		"errorDelete":            "Failed to delete todo",
		"errorStar":              "Failed to star todo",
		"errorSearch":            "Failed to search todos",
		"errorFilter":            "Failed to filter todos",
		"errorStats":             "Failed to load statistics",
		"errorTags":              "Failed to load tags",
		"titleRequired":          "Title is required",
		"invalidDueDate":         "Due date must look like YYYY-MM-DD",
		"overdueWarning":         "Overdue",
		"switchLanguage":         "中文",
		"darkMode":               "Dark",
		"lightMode":              "Light",
		"listHelp":               "space toggle • s star • e edit • d delete • a add • / search • 1-7 filter • t theme • l language • r reload • q quit",
		"formHelp":               "tab next field • ←/→ priority • enter on tags adds a tag • ctrl+s save • esc cancel",
		"searchHelp":             "enter search • esc clear",
	},
	Chinese: {
		"appTitle":               "我的任务",
		"appSubtitle":            "管理你的生活，一次一个任务",
		"totalTasks":             "总任务数",
		"active":                 "活跃",
		"completed":              "已完成",
		"highPriority":           "高优先级",
		"starred":                "收藏",
		"overdue":                "逾期",
		"all":                    "全部",
		"today":                  "今天",
		"high":                   "高优先级",
		"medium":                 "中",
		"low":                    "低",
		"priority":               "优先级",
		"todoPlaceholder":        "需要做什么？",
		"descriptionPlaceholder": "描述（可选）",
		"dueDate":                "截止日期",
		"dueDatePlaceholder":     "年-月-日",
		"tags":                   "标签",
		"addTag":                 "添加标签",
		"addTagButton":           "添加",
		"moreOptions":            "更多选项",
		"lessOptions":            "收起选项",
		"addTodo":                "添加任务",
		"editTodo":               "编辑任务",
		"saveChanges":            "保存",
		"cancel":                 "取消",
		"searchPlaceholder":      "搜索任务...",
		"noTodos":                "还没有任务。创建一个开始吧！",
		"noMatching":             "没有找到匹配的任务",
		"loading":                "加载中...",
		"errorLoad":              "加载任务失败。请确保后端运行在 3011 端口。",
		"errorAdd":               "添加任务失败",
		"errorUpdate":            "更新任务失败",
		"errorDelete":            "删除任务失败",
		"errorStar":              "收藏任务失败",
		"errorSearch":            "搜索任务失败",
		"errorFilter":            "筛选任务失败",
		"errorStats":             "加载统计失败",
		"errorTags":              "加载标签失败",
		"titleRequired":          "标题不能为空",
		"invalidDueDate":         "截止日期格式应为 YYYY-MM-DD",
		"overdueWarning":         "逾期",
		"switchLanguage":         "EN",
		"darkMode":               "深色",
		"lightMode":              "浅色",
		"listHelp":               "空格 完成 • s 收藏 • e 编辑 • d 删除 • a 添加 • / 搜索 • 1-7 筛选 • t 主题 • l 语言 • r 刷新 • q 退出",
		"formHelp":               "tab 下一项 • ←/→ 优先级 • 在标签上按 enter 添加 • ctrl+s 保存 • esc 取消",
		"searchHelp":             "enter 搜索 • esc 清除",
	},
}
