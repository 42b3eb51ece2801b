// Package auth provides authentication middleware for the web application.
//
// Middleware resolves the session cookie into an *auth.Session stored in
// fiber.Locals. Handlers read it back with CurrentSession instead of looking
// the session up themselves. Route guards build on that:
//   - RequireAuthenticated redirects anonymous requests to the login page
//   - RedirectAuthenticated sends logged in users away from login and signup
//
// Usage:
//
//	app.Use(authmiddleware.Middleware(sessions, secure))
//	app.Get("/dashboard", authmiddleware.RequireAuthenticated("/login"), handler)
package auth
