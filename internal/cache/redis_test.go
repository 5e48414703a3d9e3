package cache

import "testing"

func TestTodoKey(t *testing.T) {
	if got := todoKey(17); got != "todo:17" {
		t.Errorf("todoKey(17) = %q", got)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache("not a url"); err == nil {
		t.Error("expected parse error")
	}
}
