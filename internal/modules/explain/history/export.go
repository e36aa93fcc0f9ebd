package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
)

const (
	FilePrefix       = "simple-explain"
	fallbackFileName = "lesson"
	maxSlugRunes     = 60
)

var (
	unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRun   = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]+`)
)

// File is an exported entry ready to be saved.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Saver stores exported files somewhere the user can reach them.
type Saver interface {
	Save(ctx context.Context, f File) error
}

// SanitizeFileName strips characters that are unsafe in file names,
// collapses whitespace to hyphens and caps the result at 60 characters.
func SanitizeFileName(value string) string {
	base := strings.TrimSpace(value)
	base = unsafeFileChars.ReplaceAllString(base, "")
	base = whitespaceRun.ReplaceAllString(base, "-")
	if r := []rune(base); len(r) > maxSlugRunes {
		base = string(r[:maxSlugRunes])
	}
	if base == "" {
		return fallbackFileName
	}
	return base
}

// FileName builds simple-explain-{lang}-{NN}-{YYYY-MM-DD}-{slug}.{ext}.
// index is zero based.
func FileName(lang string, index int, e Entry, ext string, now time.Time) string {
	date := e.SearchedAt
	if date.IsZero() {
		date = now
	}
	return fmt.Sprintf("%s-%s-%02d-%s-%s.%s",
		FilePrefix, lang, index+1, date.UTC().Format("2006-01-02"), SanitizeFileName(e.Topic), ext)
}

// Export renders an entry for download. The essay variant produces plain
// text; otherwise the cached lesson (or an empty skeleton) is written as
// indented JSON.
func Export(variant explain.Variant, lang string, index int, e Entry, now time.Time) (File, error) {
	if variant == explain.VariantEssay {
		return File{
			Name:        FileName(lang, index, e, "txt", now),
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(essayText(lang, e)),
		}, nil
	}

	payload := explain.EmptyLesson(e.Topic)
	if e.Lesson != nil {
		payload = *e.Lesson
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return File{}, fmt.Errorf("encode lesson export: %w", err)
	}
	return File{
		Name:        FileName(lang, index, e, "json", now),
		ContentType: "application/json; charset=utf-8",
		Data:        b,
	}, nil
}

func essayText(lang string, e Entry) string {
	var b strings.Builder
	b.WriteString(e.Topic)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len([]rune(e.Topic))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Language: %s\n", lang)
	if e.Level != "" {
		fmt.Fprintf(&b, "Level: %s\n", e.Level)
	}
	if !e.SearchedAt.IsZero() {
		fmt.Fprintf(&b, "Searched at: %s\n", e.SearchedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n---\n\n")
	b.WriteString(e.Essay)
	b.WriteString("\n")
	return b.String()
}

// DirSaver writes exported files into a directory.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := s.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", f.Name, err)
	}
	return nil
}
