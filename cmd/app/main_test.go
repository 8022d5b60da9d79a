package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
	"github.com/starford/sowilo/internal/session"
	"github.com/starford/sowilo/internal/testutil"
)

func TestChatLoop(t *testing.T) {
	in := strings.NewReader("contact email\n\n   \nBYE\nnever read\n")
	var out bytes.Buffer

	if err := chatLoop(in, &out, faq.NewMatcher(faq.Default()), faq.DefaultGreeting); err != nil {
		t.Fatalf("chatLoop: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"FAQ CHATBOT",
		"Bot: " + faq.DefaultGreeting,
		"Type 'quit' to exit.",
		"Bot: You can reach CodeAlpha",
		"(Confidence: 100.00%)",
		"Bot: " + farewell,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "Bot: You can reach"); n != 1 {
		t.Errorf("answered %d times, want 1", n)
	}
	if strings.Contains(got, "never read") {
		t.Error("input after exit word was processed")
	}
}

func TestChatLoop_EOF(t *testing.T) {
	var out bytes.Buffer
	if err := chatLoop(strings.NewReader("hello there"), &out, faq.NewMatcher(faq.Default()), ""); err != nil {
		t.Fatalf("chatLoop: %v", err)
	}
	if !strings.Contains(out.String(), "Bot: "+faq.DefaultFallback) {
		t.Errorf("expected fallback, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "(Confidence: 0.00%)") {
		t.Errorf("expected zero confidence, got:\n%s", out.String())
	}
}

func TestIsExit(t *testing.T) {
	for _, w := range []string{"quit", "Exit", "BYE"} {
		if !isExit(w) {
			t.Errorf("isExit(%q) = false", w)
		}
	}
	for _, w := range []string{"", "goodbye", "quit now"} {
		if isExit(w) {
			t.Errorf("isExit(%q) = true", w)
		}
	}
}

func TestNumbered(t *testing.T) {
	if got := numbered("generated_music_sequence.json", 0, 1); got != "generated_music_sequence.json" {
		t.Errorf("single = %q", got)
	}
	if got := numbered("generated_music_sequence.mid", 11, 12); got != "generated_music_sequence_012.mid" {
		t.Errorf("batch = %q", got)
	}
}

func TestExportBatch(t *testing.T) {
	dir, store := testutil.TestDir(t)
	svc := service.New(
		faq.NewMatcher(faq.Default()),
		music.NewGenerator(music.WithSource(rand.NewPCG(1, 2))),
		session.NewStore(1, ""),
		service.WithLogger(testutil.Logger()),
	)

	files, err := exportBatch(context.Background(), svc, store, "jazz", 24, 3, 2,
		[]string{service.FormatJSON, service.FormatMIDI})
	if err != nil {
		t.Fatalf("exportBatch: %v", err)
	}
	if len(files) != 6 {
		t.Fatalf("files = %d, want 6", len(files))
	}
	if files[0].Path != "generated_music_sequence_001.json" || files[5].Path != "generated_music_sequence_003.mid" {
		t.Errorf("paths = %q .. %q", files[0].Path, files[5].Path)
	}

	data, err := store.Read("generated_music_sequence_002.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	seq, err := music.ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(seq) != 24 {
		t.Errorf("notes = %d, want 24", len(seq))
	}
	jazz, _ := music.StyleJazz.Palette()
	for _, n := range seq {
		if !slices.Contains(jazz, n.Pitch) {
			t.Errorf("pitch %q not in jazz palette", n.Pitch)
		}
	}

	var out bytes.Buffer
	if err := printExports(&out, dir, files); err != nil {
		t.Fatalf("printExports: %v", err)
	}
	if !strings.Contains(out.String(), filepath.Join(dir, "generated_music_sequence_001.json")) {
		t.Errorf("listing missing first file:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "written in 6 file(s)") {
		t.Errorf("listing missing summary:\n%s", out.String())
	}
}

func TestExportBatch_InvalidLength(t *testing.T) {
	_, store := testutil.TestDir(t)
	svc := service.New(faq.NewMatcher(faq.Default()), music.NewGenerator(), session.NewStore(1, ""))

	if _, err := exportBatch(context.Background(), svc, store, "classical", 5, 2, 2,
		[]string{service.FormatJSON}); err == nil {
		t.Fatal("expected error for length below the minimum")
	}
}

func TestAskCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	missing := filepath.Join(t.TempDir(), "absent.yaml")
	err := cmd.Run(context.Background(), []string{"sowilo", "--config", missing, "ask", "how", "long", "is", "it"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Bot: The internship duration") {
		t.Errorf("output = %q", out.String())
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	missing := filepath.Join(t.TempDir(), "absent.yaml")
	err := cmd.Run(context.Background(), []string{"sowilo", "--config", missing, "generate", "--out", dir, "--wav", "--length", "20"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var seq []map[string]any
	data := readFile(t, filepath.Join(dir, music.ExportFilename))
	if err := json.Unmarshal(data, &seq); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(seq) != 20 {
		t.Errorf("notes = %d, want 20", len(seq))
	}
	if wav := readFile(t, filepath.Join(dir, music.WAVFilename)); string(wav[:4]) != "RIFF" {
		t.Errorf("wav header = %q", wav[:4])
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
