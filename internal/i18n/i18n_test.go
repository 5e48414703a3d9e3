package i18n

import (
	"slices"
	"testing"
)

func TestTablesHaveSameKeys(t *testing.T) {
	for _, l := range Supported {
		for key := range tables[English] {
			if _, ok := tables[l][key]; !ok {
				t.Errorf("%s is missing %q", l, key)
			}
		}
		if len(tables[l]) != len(tables[English]) {
			t.Errorf("%s has %d keys, en has %d", l, len(tables[l]), len(tables[English]))
		}
	}
}

func TestT(t *testing.T) {
	tests := []struct {
		locale Locale
		key    string
		want   string
	}{
		{English, "appTitle", "My Tasks"},
		{Chinese, "appTitle", "我的任务"},
		{Chinese, "errorFilter", "筛选任务失败"},
		{English, "noSuchKey", "noSuchKey"},
		{Chinese, "", ""},
		{Locale("fr"), "addTodo", "Add Todo"},
	}
	for _, tt := range tests {
		if got := New(tt.locale).T(tt.key); got != tt.want {
			t.Errorf("New(%q).T(%q) = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}

func TestParseAndNext(t *testing.T) {
	if got := Parse(" ZH "); got != Chinese {
		t.Errorf("Parse(ZH) = %q", got)
	}
	if got := Parse("de"); got != English {
		t.Errorf("Parse(de) = %q", got)
	}
	if New(Locale("de")).Locale() != English {
		t.Error("unknown locale should fall back to en")
	}
	if English.Next() != Chinese || Chinese.Next() != English {
		t.Error("Next does not cycle")
	}
	if !slices.Contains(Supported, Chinese) {
		t.Error("zh not supported")
	}
}
