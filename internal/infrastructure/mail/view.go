package mail

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template parts every view must define
const (
	elementSubject = "subject"
	elementBody    = "body"
)

// View names
const (
	ViewVerifyEmail = "verify_email"
)

// View renders a subject and a body from one template file
type View struct {
	tmpl *template.Template
}

// ParseView loads templates/<name>.tmpl
func ParseView(name string) (*View, error) {
	tmpl, err := template.New(name).ParseFS(templateFS, fmt.Sprintf("templates/%s.tmpl", name))
	if err != nil {
		return nil, err
	}
	for _, el := range []string{elementSubject, elementBody} {
		if tmpl.Lookup(el) == nil {
			return nil, fmt.Errorf("view %s: missing %s template", name, el)
		}
	}
	return &View{tmpl: tmpl}, nil
}

// Render fills the view with data and returns subject and body
func (v *View) Render(data any) (string, string, error) {
	var subject, body bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&subject, elementSubject, data); err != nil {
		return "", "", err
	}
	if err := v.tmpl.ExecuteTemplate(&body, elementBody, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}

// VerificationData feeds the verify_email view
type VerificationData struct {
	AppName  string
	Name     string
	Link     string
	ValidFor string
}

func formatValidity(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return d.String()
	}
}
