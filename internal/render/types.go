package render

const (
	// Display values
	MissingValue    = "<none>"
	NAValue         = "n/a"
	DefaultNullText = "(null)"
	Blank           = ""

	// Checkbox marks
	CheckedMark   = "[x]"
	UncheckedMark = "[ ]"

	// ShortDateLayout is the default layout of date columns.
	ShortDateLayout = "2006-01-02"
)
