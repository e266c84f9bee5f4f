package web

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"proptrackrr/web/config"
	"proptrackrr/web/internal/models"
)

// NavLink is one entry of the navbar
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Flash is a one-shot notification shown at the top of the page
type Flash struct {
	Kind    string
	Message string
}

// Layout carries what the header and footer templates need
type Layout struct {
	Path       string
	Title      string
	Site       config.SiteContent
	Nav        []NavLink
	LoggedIn   bool
	BrokerName string
	AuthPage   bool
	ShowFooter bool
	Flash      *Flash
	Year       int
}

var navLinks = []NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Marketplace", Href: "/marketplace"},
	{Label: "Features", Href: "/features"},
	{Label: "How it works", Href: "/how-it-works"},
	{Label: "Hostcare", Href: "/hostcare"},
	{Label: "About", Href: "/about"},
	{Label: "Contact", Href: "/contact"},
}

func hasAnyPrefix(path string, prefixes ...string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") || strings.HasPrefix(path, p+"?") {
			return true
		}
	}
	return false
}

// ShowFooter hides the footer on the dashboard and the auth pages
func ShowFooter(path string) bool {
	return !hasAnyPrefix(path, "/dashboard", "/login", "/register")
}

// IsAuthPage reports whether path is the login or register page
func IsAuthPage(path string) bool {
	return hasAnyPrefix(path, "/login", "/register")
}

// NewLayout builds the layout for a page at path. s may be nil.
func NewLayout(path, title string, s *models.Session, site config.SiteContent) Layout {
	nav := make([]NavLink, 0, len(navLinks)+1)
	for _, l := range navLinks {
		l.Active = hasAnyPrefix(path, l.Href)
		nav = append(nav, l)
	}

	loggedIn := s.LoggedIn()
	if loggedIn {
		nav = append(nav, NavLink{Label: "Dashboard", Href: "/dashboard", Active: hasAnyPrefix(path, "/dashboard")})
	}

	brokerName := ""
	if s != nil {
		brokerName = s.BrokerName
	}

	return Layout{
		Path:       path,
		Title:      title,
		Site:       site,
		Nav:        nav,
		LoggedIn:   loggedIn,
		BrokerName: brokerName,
		AuthPage:   IsAuthPage(path),
		ShowFooter: ShowFooter(path),
		Year:       time.Now().Year(),
	}
}

// WithFlash attaches a notification if message is set
func (l Layout) WithFlash(kind, message string) Layout {
	if message != "" {
		l.Flash = &Flash{Kind: kind, Message: message}
	}
	return l
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatPrice": FormatPrice,
		"coverImage":  CoverImage,
		"upper":       strings.ToUpper,
		"lower":       strings.ToLower,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"add": func(a, b int) int { return a + b },
	}
}

// FormatPrice renders a price with thousands separators, e.g. "₹ 4,500,000". Values that
// are not numbers are returned unchanged.
func FormatPrice(n models.Number) string {
	f, ok := n.Float()
	if !ok {
		return n.String()
	}
	whole := strconv.FormatInt(int64(f), 10)
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "₹ " + b.String()
	if neg {
		out = "-" + out
	}
	return out
}

// CoverImage returns the first image of a listing, or ""
func CoverImage(p models.Property) string {
	for _, m := range p.Media {
		if m.StorageURL != "" && (m.MediaType == "" || strings.HasPrefix(m.MediaType, "image")) {
			return m.StorageURL
		}
	}
	return ""
}
