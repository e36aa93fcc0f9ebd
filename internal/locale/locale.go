package locale

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Lang string

const (
	EN Lang = "en"
	VI Lang = "vi"
)

// Supported lists the languages that ship a dictionary, default first.
var Supported = []Lang{EN, VI}

//go:embed dictionaries/*.yaml
var dictionaryFS embed.FS

type Meta struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type Header struct {
	Logo    string `yaml:"logo" json:"logo"`
	Tagline string `yaml:"tagline" json:"tagline"`
}

type Input struct {
	Heading           string `yaml:"heading" json:"heading"`
	Subtitle          string `yaml:"subtitle" json:"subtitle"`
	Placeholder       string `yaml:"placeholder" json:"placeholder"`
	GenerateBtn       string `yaml:"generateBtn" json:"generateBtn"`
	Hint              string `yaml:"hint" json:"hint"`
	LevelLabel        string `yaml:"levelLabel" json:"levelLabel"`
	BeginnerLevel     string `yaml:"beginnerLevel" json:"beginnerLevel"`
	IntermediateLevel string `yaml:"intermediateLevel" json:"intermediateLevel"`
	AdvancedLevel     string `yaml:"advancedLevel" json:"advancedLevel"`
}

type Recent struct {
	Heading   string `yaml:"heading" json:"heading"`
	ExportBtn string `yaml:"exportBtn" json:"exportBtn"`
	Empty     string `yaml:"empty" json:"empty"`
}

type Loading struct {
	Text string `yaml:"text" json:"text"`
}

type LessonLabels struct {
	BeginnerLabel     string `yaml:"beginnerLabel" json:"beginnerLabel"`
	IntermediateLabel string `yaml:"intermediateLabel" json:"intermediateLabel"`
	AdvanceLabel      string `yaml:"advanceLabel" json:"advanceLabel"`
	GeneratedOn       string `yaml:"generatedOn" json:"generatedOn"`
	TotalWords        string `yaml:"totalWords" json:"totalWords"`
	WordsSuffix       string `yaml:"wordsSuffix" json:"wordsSuffix"`
	ContinueToNext    string `yaml:"continueToNext" json:"continueToNext"`
	FinalLevel        string `yaml:"finalLevel" json:"finalLevel"`
}

type Article struct {
	NewTopic      string `yaml:"newTopic" json:"newTopic"`
	FontSizeTitle string `yaml:"fontSizeTitle" json:"fontSizeTitle"`
	PrintTitle    string `yaml:"printTitle" json:"printTitle"`
	MinRead       string `yaml:"minRead" json:"minRead"`
	Footer        string `yaml:"footer" json:"footer"`
	TitlePrefix   string `yaml:"titlePrefix" json:"titlePrefix"`
}

type LevelInstructions struct {
	Beginner     string `yaml:"beginner" json:"beginner"`
	Intermediate string `yaml:"intermediate" json:"intermediate"`
	Advanced     string `yaml:"advanced" json:"advanced"`
}

// Dates holds the pieces used by FormatLongDate and FormatDateTime.
// Layout strings use {month}, {shortMonth}, {day}, {year}, {hour12},
// {hour24}, {minute} and {ampm} placeholders.
type Dates struct {
	Months      []string `yaml:"months" json:"-"`
	ShortMonths []string `yaml:"shortMonths" json:"-"`
	LongDate    string   `yaml:"longDate" json:"-"`
	DateTime    string   `yaml:"dateTime" json:"-"`
}

// Dictionary is the full set of localized strings for one language.
type Dictionary struct {
	Lang              Lang              `yaml:"-" json:"lang"`
	Meta              Meta              `yaml:"meta" json:"meta"`
	Header            Header            `yaml:"header" json:"header"`
	Input             Input             `yaml:"input" json:"input"`
	Recent            Recent            `yaml:"recent" json:"recent"`
	Loading           Loading           `yaml:"loading" json:"loading"`
	Lesson            LessonLabels      `yaml:"lesson" json:"lesson"`
	Article           Article           `yaml:"article" json:"article"`
	LevelInstructions LevelInstructions `yaml:"levelInstructions" json:"levelInstructions"`
	Prompt            string            `yaml:"prompt" json:"prompt"`
	LessonPrompt      string            `yaml:"lessonPrompt" json:"lessonPrompt"`
	ErrorMessage      string            `yaml:"errorMessage" json:"errorMessage"`
	Dates             Dates             `yaml:"dates" json:"-"`
}

var dictionaries map[Lang]*Dictionary

func init() {
	loaded, err := loadAll()
	if err != nil {
		panic(err)
	}
	dictionaries = loaded
}

func loadAll() (map[Lang]*Dictionary, error) {
	out := make(map[Lang]*Dictionary, len(Supported))
	for _, lang := range Supported {
		raw, err := dictionaryFS.ReadFile("dictionaries/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("locale: read %s dictionary: %w", lang, err)
		}
		var d Dictionary
		if err := yaml.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("locale: parse %s dictionary: %w", lang, err)
		}
		if len(d.Dates.Months) != 12 || len(d.Dates.ShortMonths) != 12 {
			return nil, fmt.Errorf("locale: %s dictionary needs 12 month names", lang)
		}
		d.Lang = lang
		out[lang] = &d
	}
	return out, nil
}

// Parse reports whether raw names a supported language.
func Parse(raw string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := dictionaries[l]
	return l, ok
}

// Normalize maps raw onto a supported language, falling back to English.
func Normalize(raw string) Lang {
	if l, ok := Parse(raw); ok {
		return l
	}
	return EN
}

// Get returns the dictionary for lang. Unknown languages get English.
func Get(lang Lang) *Dictionary {
	if d, ok := dictionaries[lang]; ok {
		return d
	}
	return dictionaries[EN]
}

// Tag is the BCP 47 tag used for case folding and formatting.
func (l Lang) Tag() language.Tag {
	switch l {
	case VI:
		return language.Vietnamese
	default:
		return language.AmericanEnglish
	}
}

// Fold lowercases s using the language's casing rules.
func (l Lang) Fold(s string) string {
	return cases.Lower(l.Tag()).String(s)
}

// LevelInstruction returns the instruction text for a level name
// ("beginner", "intermediate", "advanced").
func (d *Dictionary) LevelInstruction(level string) string {
	switch level {
	case "beginner":
		return d.LevelInstructions.Beginner
	case "advanced":
		return d.LevelInstructions.Advanced
	default:
		return d.LevelInstructions.Intermediate
	}
}

// FormatLongDate renders t as a long localized date, e.g. "October 19, 2026".
func (d *Dictionary) FormatLongDate(t time.Time) string {
	return d.formatDate(d.Dates.LongDate, t)
}

// FormatDateTime renders t as a short localized date with the time of day.
func (d *Dictionary) FormatDateTime(t time.Time) string {
	return d.formatDate(d.Dates.DateTime, t)
}

func (d *Dictionary) formatDate(layout string, t time.Time) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	r := strings.NewReplacer(
		"{month}", d.Dates.Months[int(t.Month())-1],
		"{shortMonth}", d.Dates.ShortMonths[int(t.Month())-1],
		"{day}", strconv.Itoa(t.Day()),
		"{year}", strconv.Itoa(t.Year()),
		"{hour12}", strconv.Itoa(hour12),
		"{hour24}", fmt.Sprintf("%02d", t.Hour()),
		"{minute}", fmt.Sprintf("%02d", t.Minute()),
		"{ampm}", ampm,
	)
	return r.Replace(layout)
}
