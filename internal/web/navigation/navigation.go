// Package navigation builds the per-page navigation state rendered by the base layout.
package navigation

import "github.com/taskflow-app/taskflow/internal/auth"

// Page identifiers.
const (
	PageLogin     = "login"
	PageSignup    = "signup"
	PageTerms     = "terms"
	PageDashboard = "dashboard"
	PageLogout    = "logout"
)

// Link is a single entry of the navigation bar.
type Link struct {
	Title string
	URL   string
	Page  string
}

// Context represents the navigation context for a page.
type Context struct {
	PageTitle     string
	ActivePage    string
	Authenticated bool
	UserName      string
	Links         []Link
}

// NewContext creates the navigation context for a page. The links depend on
// whether sess is an authenticated session.
func NewContext(pageTitle, activePage string, sess *auth.Session) *Context {
	ctx := &Context{
		PageTitle:  pageTitle,
		ActivePage: activePage,
	}

	if sess == nil {
		ctx.Links = []Link{
			{Title: "Log in", URL: "/login", Page: PageLogin},
			{Title: "Sign up", URL: "/signup", Page: PageSignup},
			{Title: "Terms", URL: "/terms", Page: PageTerms},
		}

		return ctx
	}

	ctx.Authenticated = true
	ctx.UserName = sess.Name
	ctx.Links = []Link{
		{Title: "Dashboard", URL: "/dashboard", Page: PageDashboard},
		{Title: "Terms", URL: "/terms", Page: PageTerms},
		{Title: "Log out", URL: "/logout", Page: PageLogout},
	}

	return ctx
}

// IsActive checks if page is the current page.
func (c *Context) IsActive(page string) bool {
	return c.ActivePage == page
}
