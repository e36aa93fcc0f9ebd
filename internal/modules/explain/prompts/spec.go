package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/simple-explain/internal/locale"
)

// Spec declares one prompt. System is a plain string or a Go template over
// Input; User picks the localized template text out of a dictionary.
type Spec struct {
	Name       PromptName
	Version    int
	SchemaName string
	// Schema is nil for free-text prompts.
	Schema     func() map[string]any
	System     string
	User       func(d *locale.Dictionary) string
	Validators []Validator
}

// MakeTemplate compiles a Spec, parsing the user template once per
// supported language.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if s.Schema != nil && strings.TrimSpace(s.SchemaName) == "" {
		return Template{}, fmt.Errorf("missing schema name for %s", s.Name)
	}
	if s.User == nil {
		return Template{}, fmt.Errorf("missing user template for %s", s.Name)
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT := make(map[locale.Lang]*template.Template, len(locale.Supported))
	for _, lang := range locale.Supported {
		t, err := template.New("user_" + string(lang)).Option("missingkey=zero").Parse(s.User(locale.Get(lang)))
		if err != nil {
			return Template{}, fmt.Errorf("%s %s user template parse: %w", s.Name, lang, err)
		}
		userT[lang] = t
	}

	render := func(t *template.Template, in Input) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, in); err != nil {
			return "", err
		}
		return strings.TrimSpace(b.String()), nil
	}
	tt := Template{
		Name:       s.Name,
		Version:    s.Version,
		SchemaName: s.SchemaName,
		Schema:     s.Schema,
		System:     func(in Input) (string, error) { return render(sysT, in) },
		User: func(in Input) (string, error) {
			t, ok := userT[in.Lang]
			if !ok {
				t = userT[locale.EN]
			}
			return render(t, in)
		},
	}
	if len(s.Validators) > 0 {
		tt.Validate = func(in Input) error {
			for _, v := range s.Validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return tt, nil
}

// RegisterSpec compiles and registers s, panicking on a bad declaration.
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}
