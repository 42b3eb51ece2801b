// Package auth implements the email and password authentication flow.
//
// The Controller validates typed login and signup input, enforces the account
// rules and orchestrates two collaborators:
//   - a CredentialStore that finds and creates user records
//   - a SessionAuthority that establishes and destroys sessions
//
// Business rule failures are returned as *Rejection values. Each carries a
// Kind and the notice shown to the user. Any other error is an infrastructure
// fault and is reported as such by the caller.
//
// Rules applied on signup, first failing rule wins:
//   - email, password and password confirmation must be present
//   - the email must not be registered yet
//   - the name must be 1 to 20 characters long
//   - the password must be at least 6 characters long
//   - the confirmation must equal the password
//
// Example usage:
//
//	ctrl, err := auth.NewController(user.New(db), session.NewManager(storage, cfg.Webserver.Session))
//
//	res, err := ctrl.Login(ctx, auth.LoginInput{Email: email, Password: password})
//	if rej, ok := auth.AsRejection(err); ok {
//	    // render rej.Notice
//	}
package auth
