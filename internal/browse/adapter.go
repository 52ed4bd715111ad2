package browse

// SiteAdapter describes how to find the login controls on a hunt site.
// The default adapter targets gph-site style login pages; other site
// families plug in their own selectors and arities.
type SiteAdapter interface {
	// LoginPath resolved against the site origin.
	LoginPath() string
	// InputSelector matches the credential fields. A page is only
	// accepted when it yields exactly InputCount matches, filled in
	// document order (username first).
	InputSelector() string
	InputCount() int
	// SubmitSelector matches the submit control, exactly SubmitCount times.
	SubmitSelector() string
	SubmitCount() int
}

// GphAdapter matches gph-site login templates.
type GphAdapter struct{}

func (GphAdapter) LoginPath() string { return "/login" }

func (GphAdapter) InputSelector() string {
	return `input[type="text"], input[type="password"], input[name="username"]`
}

func (GphAdapter) InputCount() int { return 2 }

func (GphAdapter) SubmitSelector() string { return `button[type="submit"]` }

func (GphAdapter) SubmitCount() int { return 1 }
