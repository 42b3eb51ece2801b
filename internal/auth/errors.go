package auth

import "errors"

// Kind classifies a rejected login or signup.
type Kind int

// Rejection kinds.
const (
	KindMissingCredentials Kind = iota + 1
	KindInvalidCredentials
	KindDuplicateEmail
	KindInvalidName
	KindWeakPassword
	KindPasswordMismatch
)

var kindNames = map[Kind]string{ //nolint:gochecknoglobals
	KindMissingCredentials: "missing_credentials",
	KindInvalidCredentials: "invalid_credentials",
	KindDuplicateEmail:     "duplicate_email",
	KindInvalidName:        "invalid_name",
	KindWeakPassword:       "weak_password",
	KindPasswordMismatch:   "password_mismatch",
}

// String returns the snake case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// Rejection is a business rule failure, as opposed to an infrastructure fault.
type Rejection struct {
	Kind   Kind
	Notice string
}

// Error returns the user facing notice.
func (r *Rejection) Error() string {
	return r.Notice
}

var (
	// ErrMissingCredentials is returned when a required field is empty.
	ErrMissingCredentials = &Rejection{Kind: KindMissingCredentials, Notice: "Please fill in all credentials."}

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = &Rejection{Kind: KindInvalidCredentials, Notice: "Invalid login credentials. Please try again."}

	// ErrDuplicateEmail is returned when signing up with a registered email.
	ErrDuplicateEmail = &Rejection{
		Kind:   KindDuplicateEmail,
		Notice: "This email is already associated with another account.",
	}

	// ErrInvalidName is returned when the name is not between 1 and 20 characters.
	ErrInvalidName = &Rejection{Kind: KindInvalidName, Notice: "Name must be between 1 and 20 characters."}

	// ErrWeakPassword is returned when the password is shorter than 6 characters.
	ErrWeakPassword = &Rejection{Kind: KindWeakPassword, Notice: "Password must be at least 6 characters."}

	// ErrPasswordMismatch is returned when the confirmation differs from the password.
	ErrPasswordMismatch = &Rejection{Kind: KindPasswordMismatch, Notice: "Passwords don't match."}

	// ErrNilCollaborator is returned by NewController when a store or session authority is missing.
	ErrNilCollaborator = errors.New("credential store and session authority are required")
)

// AsRejection unwraps err into a *Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}

	return nil, false
}
