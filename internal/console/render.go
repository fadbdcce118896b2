package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(60)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle  = lipgloss.NewStyle().Foreground(dim).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(fg)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	passStyle   = lipgloss.NewStyle().Foreground(success)
	failStyle   = lipgloss.NewStyle().Foreground(danger)
	warnStyle   = lipgloss.NewStyle().Foreground(warning)
	buttonOn    = lipgloss.NewStyle().Bold(true).Foreground(success)
	buttonOff   = lipgloss.NewStyle().Foreground(dim).Strikethrough(true)
	reasonStyle = lipgloss.NewStyle().Foreground(danger).Italic(true)
)

// Snapshot is the form state shown by the status command.
type Snapshot struct {
	Email             string
	EmailConfirmation string
	TermsAccepted     bool
	Reasons           string
	State             string
	Enabled           bool
	LastError         string
}

// RenderStatus renders the whole form.
func RenderStatus(s Snapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sign up"))
	b.WriteString("\n\n")
	b.WriteString(row("E-mail", quoted(s.Email)))
	b.WriteString(row("Confirm", quoted(s.EmailConfirmation)))
	b.WriteString(row("Terms", checkbox(s.TermsAccepted)))
	b.WriteString("\n")

	if s.Reasons != "" {
		for _, line := range strings.Split(s.Reasons, "\n") {
			b.WriteString(reasonStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(button(s.Enabled))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(s.State))
	if s.LastError != "" {
		b.WriteString("\n")
		b.WriteString(failStyle.Render(s.LastError))
	}

	return boxStyle.Render(b.String())
}

// RenderReasons renders an update of the reasons label.
func RenderReasons(text string) string {
	if text == "" {
		return passStyle.Render("✓ ") + dimStyle.Render("no validation errors")
	}
	return warnStyle.Render("! ") + reasonStyle.Render(strings.ReplaceAll(text, "\n", "; "))
}

// RenderCompleted renders a successful submission.
func RenderCompleted() string {
	return passStyle.Render("✓ submitted")
}

// RenderFailed renders a failed submission or a rejected command.
func RenderFailed(reason string) string {
	return failStyle.Render("✗ " + reason)
}

// RenderHelp lists the commands.
func RenderHelp() string {
	lines := []string{
		"email <address>     set the e-mail field",
		"confirm <address>   set the confirmation field",
		"terms on|off        toggle the terms",
		"submit              press the submit button",
		"status              show the form",
		"quit                leave",
	}
	return dimStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return fmt.Sprintf("%s%s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func quoted(s string) string {
	if s == "" {
		return dimStyle.Render("(empty)")
	}
	return s
}

func checkbox(on bool) string {
	if on {
		return passStyle.Render("[x] accepted")
	}
	return dimStyle.Render("[ ] not accepted")
}

func button(enabled bool) string {
	if enabled {
		return buttonOn.Render("[ Submit ]")
	}
	return buttonOff.Render("[ Submit ]")
}
