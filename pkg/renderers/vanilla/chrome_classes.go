package vanilla

// ChromeClass is a typed identifier for the CSS classes of page chrome.
type ChromeClass string

const (
	ClassPage    ChromeClass = "recordedit-page"
	ClassHeader  ChromeClass = "recordedit-header"
	ClassForm    ChromeClass = "recordedit-form"
	ClassGrid    ChromeClass = "recordedit-grid"
	ClassField   ChromeClass = "recordedit-field"
	ClassActions ChromeClass = "recordedit-actions"
	ClassErrors  ChromeClass = "recordedit-errors"
)

// ChromeClasses overrides the class attribute of page chrome. Empty entries
// keep the defaults.
type ChromeClasses struct {
	Page    string `json:"page"`
	Header  string `json:"header"`
	Form    string `json:"form"`
	Grid    string `json:"grid"`
	Field   string `json:"field"`
	Actions string `json:"actions"`
	Errors  string `json:"errors"`
}

func defaultChromeClasses() ChromeClasses {
	return ChromeClasses{
		Page:    string(ClassPage),
		Header:  string(ClassHeader),
		Form:    string(ClassForm),
		Grid:    string(ClassGrid),
		Field:   string(ClassField),
		Actions: string(ClassActions),
		Errors:  string(ClassErrors),
	}
}

func (c ChromeClasses) merge(overrides ChromeClasses) ChromeClasses {
	pick := func(base, override string) string {
		if override = sanitizeClassList(override); override != "" {
			return override
		}
		return base
	}
	return ChromeClasses{
		Page:    pick(c.Page, overrides.Page),
		Header:  pick(c.Header, overrides.Header),
		Form:    pick(c.Form, overrides.Form),
		Grid:    pick(c.Grid, overrides.Grid),
		Field:   pick(c.Field, overrides.Field),
		Actions: pick(c.Actions, overrides.Actions),
		Errors:  pick(c.Errors, overrides.Errors),
	}
}
