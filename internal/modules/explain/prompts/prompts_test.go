package prompts

import (
	"strings"
	"testing"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
)

func TestBuildEssayFillsTopicAndLevelInstruction(t *testing.T) {
	p, err := Build(PromptEssay, Input{Topic: "Photosynthesis", Lang: locale.EN, Level: explain.LevelBeginner})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, `explaining "Photosynthesis"`) {
		t.Fatalf("topic not substituted: %q", p.User)
	}
	if !strings.Contains(p.User, locale.Get(locale.EN).LevelInstructions.Beginner) {
		t.Fatalf("level instruction not substituted: %q", p.User)
	}
	if p.JSON() {
		t.Fatalf("essay prompt should be free text")
	}
}

func TestBuildEssayVietnamese(t *testing.T) {
	p, err := Build(PromptEssay, Input{Topic: "Quang hợp", Lang: locale.VI, Level: explain.LevelAdvanced})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "Quang hợp") || !strings.Contains(p.User, locale.Get(locale.VI).LevelInstructions.Advanced) {
		t.Fatalf("vi prompt: %q", p.User)
	}
}

func TestBuildUnknownLangFallsBackToEnglish(t *testing.T) {
	p, err := Build(PromptEssay, Input{Topic: "Gravity", Lang: "fr"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(p.User, "Write a short essay") {
		t.Fatalf("want english template got=%q", p.User)
	}
	if !strings.Contains(p.User, locale.Get(locale.EN).LevelInstructions.Intermediate) {
		t.Fatalf("want intermediate default: %q", p.User)
	}
}

func TestBuildTopicIsNotInterpreted(t *testing.T) {
	p, err := Build(PromptLesson, Input{Topic: "{{.Lang}} templates", Lang: locale.EN})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, `"{{.Lang}} templates"`) {
		t.Fatalf("topic should be inserted verbatim: %q", p.User)
	}
}

func TestBuildLessonCarriesSchema(t *testing.T) {
	p, err := Build(PromptLesson, Input{Topic: "Cells", Lang: locale.EN})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.JSON() || p.SchemaName != "explain_lesson_v1" {
		t.Fatalf("schema: name=%q json=%v", p.SchemaName, p.JSON())
	}
	lesson := p.Schema["properties"].(map[string]any)["lesson"].(map[string]any)
	req := lesson["required"].([]string)
	if strings.Join(req, ",") != "beginner,intermediate,advance" {
		t.Fatalf("lesson required: %v", req)
	}
}

func TestBuildRejectsBlankTopic(t *testing.T) {
	if _, err := Build(PromptLesson, Input{Topic: "  ", Lang: locale.EN}); err == nil {
		t.Fatalf("want error for blank topic")
	}
	if _, err := Build("missing", Input{Topic: "x"}); err == nil {
		t.Fatalf("want error for unknown prompt")
	}
}

func TestFingerprintStable(t *testing.T) {
	a, _ := Build(PromptLesson, Input{Topic: "Cells", Lang: locale.EN})
	b, _ := Build(PromptLesson, Input{Topic: "Cells", Lang: locale.EN})
	c, _ := Build(PromptLesson, Input{Topic: "Atoms", Lang: locale.EN})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same prompt, different fingerprints")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different prompts share a fingerprint")
	}
}
