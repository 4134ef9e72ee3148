package transform

import (
	"context"
	"strings"
	"testing"

	"github.com/dgallion1/doctransform/internal/config"
)

func TestPromptsFrom(t *testing.T) {
	cfg := config.Config{
		Split: config.FeatureSettings{Prompt: "Custom split."},
		CosmeticDictionary: []config.DictEntry{
			{Key: "colour", Value: "color"},
			{Key: "  ", Value: "ignored"},
			{Key: " gray ", Value: " grey "},
		},
	}
	p := PromptsFrom(cfg)

	if p.Split != "Custom split." {
		t.Errorf("split override not applied: %q", p.Split)
	}
	if p.Punctuate != PunctuatePrompt {
		t.Error("punctuate prompt should keep its default")
	}
	if !strings.HasPrefix(p.Cosmetic, CosmeticPrompt) {
		t.Error("cosmetic prompt should start with the default prompt")
	}
	if !strings.HasSuffix(p.Cosmetic, "\ncolour: color\ngray: grey") {
		t.Errorf("dictionary not appended as expected: %q", p.Cosmetic[len(CosmeticPrompt):])
	}
}

func TestWithDictionary_Empty(t *testing.T) {
	if got := WithDictionary("base", nil); got != "base" {
		t.Errorf("WithDictionary(nil) = %q", got)
	}
}

func TestNew_RefusesMissingCredential(t *testing.T) {
	_, err := New(context.Background(), config.Config{Provider: "anthropic"})
	if err == nil {
		t.Fatal("expected missing credential to be refused")
	}
	tr, err := New(context.Background(), config.Config{Provider: "ollama", OllamaBaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("ollama should not need a key: %v", err)
	}
	if _, ok := tr.(*ChatClient); !ok {
		t.Errorf("expected *ChatClient, got %T", tr)
	}
}
