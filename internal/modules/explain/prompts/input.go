package prompts

import (
	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
)

// Input carries every field a prompt template may reference.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Topic string
	Lang  locale.Lang
	Level explain.Level
	// LevelInstruction is filled from the dictionary when empty.
	LevelInstruction string
}
