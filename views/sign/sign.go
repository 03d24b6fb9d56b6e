package sign

import (
	"strings"

	"charm-sign-tui/styles"
	"charm-sign-tui/wallet"

	"github.com/charmbracelet/lipgloss"
)

// State is everything the signing panel shows
type State struct {
	MessageInput string
	SchemaInput  string
	SchemaErr    string

	Signing   bool
	Message   wallet.Message
	Signature wallet.Signature
	Signer    string
}

// Render renders the message inputs and, once signed, the signature
func Render(s State, spinnerView string) string {
	muted := styles.Muted

	lines := []string{
		styles.TitleStyle.Render("Sign Message"),
		"",
		s.MessageInput,
		s.SchemaInput,
	}
	if s.SchemaErr != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ Invalid schema: "+s.SchemaErr))
	} else {
		lines = append(lines, muted.Render("Leave the schema empty to sign the message as text. Otherwise the message is hex and the schema is base64 ABI JSON."))
	}

	if s.Signing {
		lines = append(lines, "", spinnerView+" waiting for the wallet to sign…")
		return strings.Join(lines, "\n")
	}

	if len(s.Signature) == 0 {
		return strings.Join(lines, "\n")
	}

	label := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
	lines = append(lines,
		"",
		label.Render("Signed")+" "+muted.Render(s.Message.Kind.String()),
	)
	if d := s.Message.Describe(); d != "" {
		lines = append(lines, muted.Render(d))
	}
	lines = append(lines,
		label.Render("Raw:")+" "+styles.Code.Render(s.Signature.Raw()),
		label.Render("Base64:")+" "+styles.Code.Render(s.Signature.Base64()),
	)
	if s.Signer != "" {
		lines = append(lines, label.Render("Signer:")+" "+s.Signer)
	}

	return strings.Join(lines, "\n")
}
