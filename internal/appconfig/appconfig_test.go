// internal/appconfig/appconfig_test.go
package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad verifies that a valid configuration file loads, defaults are
// applied through the accessor methods, and broken files are rejected.
func TestLoad(t *testing.T) {
	validConfig := `{
        "apiBase": "https://llm.example.edu",
        "chatModel": "gpt-4.1-mini",
        "embeddingModel": "text-embedding-3-small",
        "topic": "astronomy",
        "ragMode": true,
        "ragCorpusPath": "notes"
    }`

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ChatModel != "gpt-4.1-mini" {
		t.Fatalf("unexpected chat model %q", cfg.ChatModel)
	}
	if cfg.RequestTimeout() != 120*time.Second {
		t.Fatalf("expected default request timeout of 120s, got %v", cfg.RequestTimeout())
	}
	if cfg.TopK() != 3 {
		t.Fatalf("expected default topK of 3, got %d", cfg.TopK())
	}
	if cfg.MinChunkChars() != 100 {
		t.Fatalf("expected default min chunk chars of 100, got %d", cfg.MinChunkChars())
	}
	if cfg.RelevanceCutoff() != 0.2 {
		t.Fatalf("expected default relevance cutoff of 0.2, got %v", cfg.RelevanceCutoff())
	}
	if cfg.AnswerMatchCutoff() != 0.8 {
		t.Fatalf("expected default answer cutoff of 0.8, got %v", cfg.AnswerMatchCutoff())
	}
	if cfg.SynthesisAttempts() != 3 {
		t.Fatalf("expected default synthesis attempts of 3, got %d", cfg.SynthesisAttempts())
	}
	if cfg.CategoryCount() != 4 {
		t.Fatalf("expected default category count of 4, got %d", cfg.CategoryCount())
	}
	if cfg.TeamCount() != 1 {
		t.Fatalf("expected default team count of 1, got %d", cfg.TeamCount())
	}

	invalidJSON := `{ "chatModel": `
	if _, err := Load(writeConfig(t, invalidJSON)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	missingModel := `{ "apiBase": "https://llm.example.edu" }`
	if _, err := Load(writeConfig(t, missingModel)); err == nil {
		t.Fatal("Load() without chatModel should have failed")
	}

	ragWithoutCorpus := `{ "chatModel": "m", "ragMode": true }`
	if _, err := Load(writeConfig(t, ragWithoutCorpus)); err == nil {
		t.Fatal("Load() with ragMode but no corpus should have failed")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestTeamCountClamped(t *testing.T) {
	cfg := Config{Teams: 9}
	if cfg.TeamCount() != 4 {
		t.Fatalf("expected team count clamped to 4, got %d", cfg.TeamCount())
	}
}

func TestAPIKeyComesFromEnvironment(t *testing.T) {
	t.Setenv(APIKeyEnvVar, " secret-key ")
	cfg := Config{}
	if cfg.APIKey() != "secret-key" {
		t.Fatalf("expected trimmed key from environment, got %q", cfg.APIKey())
	}
}
