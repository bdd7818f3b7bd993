package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer":     map[string]any{"type": "string"},
			"difficulty": map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
			"knowledgePoints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"requiresImage": map[string]any{"type": "boolean"},
		},
		"required": []any{"answer", "knowledgePoints"},
	}

	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT, got %s", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(s.Properties))
	}
	if got := s.Properties["difficulty"].Enum; len(got) != 3 {
		t.Fatalf("expected 3 enum values, got %v", got)
	}
	if s.Properties["knowledgePoints"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items, got %s", s.Properties["knowledgePoints"].Items.Type)
	}
	if s.Properties["requiresImage"].Type != genai.TypeBoolean {
		t.Fatalf("expected BOOLEAN, got %s", s.Properties["requiresImage"].Type)
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %v", s.Required)
	}
}

func TestGeminiContents_InlinesImages(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "q", Images: []Image{{MediaType: "image/png", Data: []byte{1, 2}}}},
		{Role: RoleAssistant, Content: "a"},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles %q %q", contents[0].Role, contents[1].Role)
	}
	parts := contents[0].Parts
	if len(parts) != 2 || parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/png" {
		t.Fatalf("expected inline image part, got %+v", parts)
	}
}
