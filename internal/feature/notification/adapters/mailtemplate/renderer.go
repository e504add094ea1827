// Package mailtemplate renders notification emails from embedded HTML templates.
package mailtemplate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"heartlink/internal/feature/notification/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	footerAccount = "You're receiving this email because you have an account on HeartLink."
	footerSignup  = "If you didn't create this account, please ignore this email."
	footerReset   = "If you didn't request a password reset, please ignore this email."
)

// Renderer builds emails whose links point at the web client under baseURL.
type Renderer struct {
	baseURL string
	pages   map[domain.Kind]*template.Template
	now     func() time.Time
}

var pageFiles = map[domain.Kind]string{
	domain.KindVerification:  "templates/verification.html",
	domain.KindPasswordReset: "templates/password_reset.html",
	domain.KindLike:          "templates/like.html",
	domain.KindMessage:       "templates/message.html",
}

// New parses the embedded templates.
func New(baseURL string) (*Renderer, error) {
	funcs := template.FuncMap{
		"initials":    initials,
		"displayName": displayName,
		"ageGender":   ageGender,
	}
	r := &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		pages:   make(map[domain.Kind]*template.Template, len(pageFiles)),
		now:     time.Now,
	}
	for kind, file := range pageFiles {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[kind] = t
	}
	return r, nil
}

type pageData struct {
	Link   string
	Sender *domain.Sender
	Year   int
	Footer string
}

// Render produces the subject, plain-text and HTML bodies for n.
func (r *Renderer) Render(n domain.Notification) (domain.Email, error) {
	page, ok := r.pages[n.Kind]
	if !ok {
		return domain.Email{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	if (n.Kind == domain.KindLike || n.Kind == domain.KindMessage) && n.Sender == nil {
		return domain.Email{}, fmt.Errorf("%s notification without sender", n.Kind)
	}

	data := pageData{Sender: n.Sender, Year: r.now().Year(), Footer: footerAccount}
	email := domain.Email{To: n.To}

	switch n.Kind {
	case domain.KindVerification:
		data.Link = r.baseURL + "/auth/verify-email/" + url.PathEscape(n.Token)
		data.Footer = footerSignup
		email.Subject = "Verify your email"
		email.Text = "Please click on this link to verify your email: " + data.Link
	case domain.KindPasswordReset:
		data.Link = r.baseURL + "/auth/reset-password/" + url.PathEscape(n.Token)
		data.Footer = footerReset
		email.Subject = "Reset your password"
		email.Text = "Please click on this link to reset your password: " + data.Link
	case domain.KindLike:
		data.Link = r.baseURL + "/auth/dashboard/matches?action=like&userId=" + url.QueryEscape(n.Sender.ID)
		name := displayName(n.Sender.Name)
		email.Subject = name + " likes you on HeartLink!"
		email.Text = name + " likes you on HeartLink! Check your account to respond: " + data.Link
	case domain.KindMessage:
		data.Link = r.baseURL + "/auth/dashboard/messages/" + url.PathEscape(n.Sender.ID)
		name := displayName(n.Sender.Name)
		email.Subject = "New message from " + name + " on HeartLink!"
		email.Text = "You have received a new message from " + name + " on HeartLink! Check your account to respond: " + data.Link
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return domain.Email{}, fmt.Errorf("render %s: %w", n.Kind, err)
	}
	email.HTML = buf.String()
	return email, nil
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Someone"
	}
	return name
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(part)[0])))
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func ageGender(age int, gender string) string {
	var parts []string
	if age > 0 {
		parts = append(parts, strconv.Itoa(age))
	}
	if gender != "" {
		parts = append(parts, strings.ToUpper(gender[:1])+gender[1:])
	}
	return strings.Join(parts, ", ")
}
