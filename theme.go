package tutor

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	UserMsg int // User message accent
	Math    int // Rendered math markup
	Error   int // Error messages
	Muted   int // Status bar, placeholders
	Accent  int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Math:    6,
		Error:   1,
		Muted:   8,
		Accent:  5,
	}
}
