package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSystemPromptFromString(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "You answer questions.{{if .HasHistory}} Use the earlier exchanges.{{end}}")

	withHistory, err := pm.SystemPrompt(true)
	if err != nil {
		t.Fatalf("SystemPrompt() error = %v", err)
	}
	if !strings.Contains(withHistory, "Use the earlier exchanges.") {
		t.Errorf("expected history clause, got %q", withHistory)
	}

	withoutHistory, err := pm.SystemPrompt(false)
	if err != nil {
		t.Fatalf("SystemPrompt() error = %v", err)
	}
	if strings.Contains(withoutHistory, "Use the earlier exchanges.") {
		t.Errorf("history clause should be absent, got %q", withoutHistory)
	}
}

func TestSystemPromptFromConfigDir(t *testing.T) {
	configDir := t.TempDir()
	template := "Base prompt.{{if .HasHistory}} With history.{{end}}"
	if err := os.WriteFile(filepath.Join(configDir, "prompt.txt"), []byte(template), 0644); err != nil {
		t.Fatal(err)
	}

	pm := NewPromptManager(configDir, "")
	got, err := pm.SystemPrompt(false)
	if err != nil {
		t.Fatalf("SystemPrompt() error = %v", err)
	}
	if got != "Base prompt." {
		t.Errorf("SystemPrompt() = %q", got)
	}
}

func TestSystemPromptMissingFile(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "")
	if _, err := pm.SystemPrompt(false); err == nil {
		t.Error("expected error for missing prompt template")
	}
}

func TestDefaultPromptTemplate(t *testing.T) {
	// The embedded default must parse and condition on history
	content, err := defaultFS.ReadFile("prompt.txt")
	if err != nil {
		t.Fatalf("reading embedded prompt: %v", err)
	}

	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, "prompt.txt"), content, 0644); err != nil {
		t.Fatal(err)
	}

	pm := NewPromptManager(configDir, "")
	withHistory, err := pm.SystemPrompt(true)
	if err != nil {
		t.Fatalf("SystemPrompt(true) error = %v", err)
	}
	withoutHistory, err := pm.SystemPrompt(false)
	if err != nil {
		t.Fatalf("SystemPrompt(false) error = %v", err)
	}

	if !strings.Contains(withHistory, "previous questions and answers") {
		t.Error("expected history clause in prompt with history")
	}
	if strings.Contains(withoutHistory, "previous questions and answers") {
		t.Error("history clause should be absent without history")
	}
	if !strings.Contains(withoutHistory, "expert Q&A assistant") {
		t.Error("expected base prompt content")
	}
}

func TestUserContent(t *testing.T) {
	got := UserContent("the transcript", "", "what happened?")
	want := "Video Content:\n\nthe transcript\n\nQuestion: what happened?"
	if got != want {
		t.Errorf("UserContent() = %q, want %q", got, want)
	}

	history := FormatHistory([]Exchange{{Question: "q", Answer: "a"}})
	got = UserContent("the transcript", history, "what happened?")
	if !strings.Contains(got, "Previous conversation:") {
		t.Errorf("expected history block in %q", got)
	}
	if !strings.HasSuffix(got, "Question: what happened?") {
		t.Errorf("question should come last, got %q", got)
	}
}

func TestIsLikelyFilePath(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/etc/prompt.txt", true},
		{"prompt.txt", true},
		{"templates/custom.tmpl", true},
		{"Answer the question briefly", false},
		{strings.Repeat("x", 300), false},
		{"single-token", true},
	}

	for _, tt := range tests {
		if got := IsLikelyFilePath(tt.input); got != tt.want {
			t.Errorf("IsLikelyFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
