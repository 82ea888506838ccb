package server

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"topodash/web"
)

var printer = message.NewPrinter(language.French)

func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	r := []rune(local)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r) + "***@" + domain
}

// maskPhone hides every digit but the last two. Separators and a leading +
// are kept: "+212 6 12 34 56 78" -> "+*** * ** ** ** 78".
func maskPhone(phone string) string {
	runes := []rune(phone)
	digits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits <= 4 {
		return "***"
	}
	seen := 0
	for i, r := range runes {
		if !unicode.IsDigit(r) {
			continue
		}
		seen++
		if seen <= digits-2 {
			runes[i] = '*'
		}
	}
	return string(runes)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"number": func(n int) string { return printer.Sprintf("%d", n) },
		"inc":    func(n int) int { return n + 1 },
		"pct": func(p *float64) string {
			if p == nil {
				return "-"
			}
			return fmt.Sprintf("%.0f", *p)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("02/01/2006 15:04")
		},
		"maskEmail": maskEmail,
		"maskPhone": maskPhone,
	}
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(funcMap()).ParseFS(web.Templates, "templates/*.html")
}
