package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilACFFatalLogMsg is used if the app, cfg or flow pointer is nil.
	ErrNilACFFatalLogMsg = "app, cfg or flow is nil"

	// InternalErrorNotice is shown for infrastructure faults.
	InternalErrorNotice = "Internal server error"

	// InvalidFormNotice is shown when a form body cannot be parsed.
	InvalidFormNotice = "Invalid form data."
)
