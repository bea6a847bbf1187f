package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"neo4j_password", "hunter2",
		"api_key", "abc",
		"phrase", "yellow onions",
		"dsn", "postgres://app:pw@db:5432/recipes",
	})
	want := map[string]interface{}{
		"neo4j_password": "[REDACTED]",
		"api_key":        "[REDACTED]",
		"phrase":         "yellow onions",
		"dsn":            "postgres://app@db:5432/recipes",
	}
	if len(got) != 8 {
		t.Fatalf("len: want=8 got=%d", len(got))
	}
	for i := 0; i < len(got); i += 2 {
		key := got[i].(string)
		if got[i+1] != want[key] {
			t.Fatalf("%s: want=%v got=%v", key, want[key], got[i+1])
		}
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	got := sanitizeKVs([]interface{}{"recipe", "soup", "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("unexpected: %v", got)
	}
}

func TestNewForTest(t *testing.T) {
	log := NewForTest(t)
	log.With("component", "test").Info("hello", "k", "v")
}
