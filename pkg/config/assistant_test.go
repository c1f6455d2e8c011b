package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadAssistantConfig_DefaultSearchPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "usr/local/share/snips/assistant/assistant.json", `{"language": "en"}`)
	setSearchPath(t, &AssistantSearchPath, filepath.Join(dir, "usr/share/snips/assistant/assistant.json"), path)

	assistant, err := LoadAssistantConfig("")
	if err != nil {
		t.Fatalf("LoadAssistantConfig() error = %v", err)
	}
	if got, want := assistant.Filename(), canonical(t, path); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	lang, err := assistant.Language()
	if err != nil {
		t.Fatalf("Language() error = %v", err)
	}
	if lang != "en" {
		t.Errorf("Language() = %q, want %q", lang, "en")
	}
}

func TestLoadAssistantConfig_ExplicitPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opt/assistant/assistant.json", `{"language": "en", "name": "Kitchen"}`)

	assistant, err := LoadAssistantConfig(path)
	if err != nil {
		t.Fatalf("LoadAssistantConfig() error = %v", err)
	}
	if assistant.Filename() != path {
		t.Errorf("Filename() = %q, want %q", assistant.Filename(), path)
	}
	if name, _ := assistant.String("name"); name != "Kitchen" {
		t.Errorf("String(name) = %q, want %q", name, "Kitchen")
	}
}

func TestLoadAssistantConfig_KeyNotFound(t *testing.T) {
	path := writeFile(t, t.TempDir(), "assistant.json", `{"language": "en"}`)

	assistant, err := LoadAssistantConfig(path)
	if err != nil {
		t.Fatalf("LoadAssistantConfig() error = %v", err)
	}
	if _, err := assistant.Lookup("name"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Lookup(name) error = %v, want ErrKeyNotFound", err)
	}
}

func TestLoadAssistantConfig_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "trailing comma", content: `{"language": "en", }`},
		{name: "not an object", content: `["en"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "assistant.json", tt.content)

			_, err := LoadAssistantConfig(path)
			if !errors.Is(err, ErrMalformedConfig) {
				t.Errorf("LoadAssistantConfig() error = %v, want ErrMalformedConfig", err)
			}
		})
	}
}

func TestLoadAssistantConfig_FileNotFound(t *testing.T) {
	_, err := LoadAssistantConfig(filepath.Join(t.TempDir(), "opt/assistant/assistant.json"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadAssistantConfig() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadAssistantConfig_DirectoryIsNotAFile(t *testing.T) {
	_, err := LoadAssistantConfig(t.TempDir())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadAssistantConfig(dir) error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadAssistantConfig_NoConfigFile(t *testing.T) {
	setSearchPath(t, &AssistantSearchPath, filepath.Join(t.TempDir(), "assistant.json"))

	_, err := LoadAssistantConfig("")
	if !errors.Is(err, ErrAssistantConfigNotFound) {
		t.Errorf("LoadAssistantConfig() error = %v, want ErrAssistantConfigNotFound", err)
	}
}

func TestLoadAssistantConfigFor(t *testing.T) {
	dir := t.TempDir()
	searched := writeFile(t, dir, "usr/share/snips/assistant/assistant.json", `{"language": "de"}`)
	configured := writeFile(t, dir, "opt/assistant/assistant.json", `{"language": "fr"}`)
	setSearchPath(t, &AssistantSearchPath, searched)

	tests := []struct {
		name     string
		snips    *SnipsConfig
		wantLang string
		wantErr  error
	}{
		{
			name:     "nil snips config uses search path",
			snips:    nil,
			wantLang: "de",
		},
		{
			name:     "no snips-common section uses search path",
			snips:    NewSnipsConfig(map[string]any{"snips-hotword": map[string]any{}}),
			wantLang: "de",
		},
		{
			name:     "no assistant key uses search path",
			snips:    NewSnipsConfig(map[string]any{"snips-common": map[string]any{"mqtt": "localhost:1883"}}),
			wantLang: "de",
		},
		{
			name:     "empty assistant key uses search path",
			snips:    NewSnipsConfig(map[string]any{"snips-common": map[string]any{"assistant": ""}}),
			wantLang: "de",
		},
		{
			name:     "assistant directory is used",
			snips:    NewSnipsConfig(map[string]any{"snips-common": map[string]any{"assistant": filepath.Dir(configured)}}),
			wantLang: "fr",
		},
		{
			name:    "missing file in assistant directory does not fall back",
			snips:   NewSnipsConfig(map[string]any{"snips-common": map[string]any{"assistant": filepath.Join(dir, "elsewhere")}}),
			wantErr: ErrFileNotFound,
		},
		{
			name:    "non-string assistant key",
			snips:   NewSnipsConfig(map[string]any{"snips-common": map[string]any{"assistant": int64(1)}}),
			wantErr: ErrMalformedConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assistant, err := LoadAssistantConfigFor(tt.snips)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadAssistantConfigFor() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadAssistantConfigFor() error = %v", err)
			}

			if lang, _ := assistant.Language(); lang != tt.wantLang {
				t.Errorf("Language() = %q, want %q", lang, tt.wantLang)
			}
		})
	}
}

func TestLoadAssistantConfigFor_FromTOML(t *testing.T) {
	dir := t.TempDir()
	snipsPath := writeFile(t, dir, "snips.toml", "[snips-common]\nassistant = \"/opt/assistant\"\n")
	fallback := writeFile(t, dir, "usr/share/snips/assistant/assistant.json", `{"language": "en"}`)
	setSearchPath(t, &AssistantSearchPath, fallback)

	snips, err := LoadSnipsConfig(snipsPath)
	if err != nil {
		t.Fatalf("LoadSnipsConfig() error = %v", err)
	}

	_, err = LoadAssistantConfigFor(snips)
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadAssistantConfigFor() error = %v, want ErrFileNotFound", err)
	}
}
