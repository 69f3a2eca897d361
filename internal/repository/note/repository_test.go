package note

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xpanvictor/voicewithin/internal/domains/note"
)

func TestFormatSection(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	tests := []struct {
		name  string
		entry note.NoteEntry
		want  string
	}{
		{
			"summary",
			note.NewNoteEntry("- buy milk\n- call bank", false, at),
			"## 14:05:07\n\n- buy milk\n- call bank\n\n",
		},
		{
			"fallback",
			note.NewNoteEntry("uh buy milk", true, at),
			"## 14:05:07\n\n" + note.FallbackLabel + "\n\nuh buy milk\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSection(tt.entry); got != tt.want {
				t.Errorf("FormatSection() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendCreatesDatedFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "VoiceWithin")
	repo := NewMarkdownNoteRepo(root)
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	path, err := repo.Append(context.Background(), note.NewNoteEntry("- first", false, at))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	want := filepath.Join(root, "2024", "2024-03-09.md")
	if path != want {
		t.Errorf("Append() path = %q, want %q", path, want)
	}

	_, err = repo.Append(context.Background(), note.NewNoteEntry("raw words", true, at.Add(time.Minute)))
	if err != nil {
		t.Fatalf("second Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wantContent := "## 14:05:07\n\n- first\n\n" +
		"## 14:06:07\n\n" + note.FallbackLabel + "\n\nraw words\n\n"
	if string(data) != wantContent {
		t.Errorf("File content = %q, want %q", data, wantContent)
	}
}

func TestAppendPreservesExistingContent(t *testing.T) {
	root := t.TempDir()
	repo := NewMarkdownNoteRepo(root)
	at := time.Date(2025, 12, 31, 23, 59, 59, 0, time.Local)

	path := repo.PathFor(at)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# my hand-written header\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Append(context.Background(), note.NewNoteEntry("- late thought", false, at)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "# my hand-written header\n\n## 23:59:59\n\n- late thought\n\n"
	if string(data) != want {
		t.Errorf("File content = %q, want %q", data, want)
	}
}

func TestAppendNewDayNewFile(t *testing.T) {
	root := t.TempDir()
	repo := NewMarkdownNoteRepo(root)
	day1 := time.Date(2024, 12, 31, 23, 59, 0, 0, time.Local)
	day2 := day1.Add(2 * time.Minute)

	p1, _ := repo.Append(context.Background(), note.NewNoteEntry("a", false, day1))
	p2, _ := repo.Append(context.Background(), note.NewNoteEntry("b", false, day2))

	if p1 == p2 {
		t.Fatal("Entries on different days must go to different files")
	}
	if filepath.Base(filepath.Dir(p2)) != "2025" {
		t.Errorf("New year entry in %q, want 2025 directory", p2)
	}
}

func TestAppendConcurrent(t *testing.T) {
	repo := NewMarkdownNoteRepo(t.TempDir())
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.Local)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Append(context.Background(), note.NewNoteEntry("- x", false, at)); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}()
	}
	wg.Wait()

	data, _ := os.ReadFile(repo.PathFor(at))
	section := FormatSection(note.NewNoteEntry("- x", false, at))
	if len(data) != 20*len(section) {
		t.Errorf("Expected 20 intact sections, got %d bytes", len(data))
	}
}

func TestAppendUnwritableRoot(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	repo := NewMarkdownNoteRepo(blocker)
	if _, err := repo.Append(context.Background(), note.NewNoteEntry("x", false, time.Now())); err == nil {
		t.Error("Expected error when the notes root is a regular file")
	}
}
