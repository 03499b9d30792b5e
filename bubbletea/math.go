package bubbletea

import (
	"regexp"
	"strings"
)

var (
	fracRe  = regexp.MustCompile(`\\[dt]?frac\{([^{}]*)\}\{([^{}]*)\}`)
	sqrtRe  = regexp.MustCompile(`\\sqrt\{([^{}]*)\}`)
	textRe  = regexp.MustCompile(`\\(?:text|mathrm|mathbf)\{([^{}]*)\}`)
	powerRe = regexp.MustCompile(`\^(?:\{([0-9+-]+)\}|([0-9]))`)
	atomRe  = regexp.MustCompile(`^[A-Za-z0-9.]+$`)
)

var superscripts = strings.NewReplacer(
	"0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
	"+", "⁺", "-", "⁻",
)

// Earlier pairs win when several match, so a command comes before any
// shorter command that is its prefix.
var commands = strings.NewReplacer(
	`\\`, "\n",
	`\left`, "",
	`\rightarrow`, "→",
	`\right`, "",
	`\cdot`, "·",
	`\times`, "×",
	`\div`, "÷",
	`\pm`, "±",
	`\leq`, "≤",
	`\le`, "≤",
	`\geq`, "≥",
	`\ge`, "≥",
	`\neq`, "≠",
	`\approx`, "≈",
	`\infty`, "∞",
	`\pi`, "π",
	`\theta`, "θ",
	`\alpha`, "α",
	`\beta`, "β",
	`\Rightarrow`, "⇒",
	`\to`, "→",
	`\quad`, "  ",
	`\,`, " ",
)

// Symbols approximates LaTeX markup with Unicode so it reads well in a
// terminal. Unknown commands are left as written.
func Symbols(latex string) string {
	s := textRe.ReplaceAllString(latex, "$1")
	for {
		next := fracRe.ReplaceAllStringFunc(s, func(m string) string {
			parts := fracRe.FindStringSubmatch(m)
			return group(parts[1]) + "/" + group(parts[2])
		})
		next = sqrtRe.ReplaceAllStringFunc(next, func(m string) string {
			return "√" + group(sqrtRe.FindStringSubmatch(m)[1])
		})
		if next == s {
			break
		}
		s = next
	}
	s = powerRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := powerRe.FindStringSubmatch(m)
		return superscripts.Replace(parts[1] + parts[2])
	})
	return strings.TrimSpace(commands.Replace(s))
}

func group(s string) string {
	s = strings.TrimSpace(s)
	if atomRe.MatchString(s) {
		return s
	}
	return "(" + s + ")"
}
