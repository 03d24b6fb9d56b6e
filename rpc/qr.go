package rpc

import (
	"strings"

	"github.com/mdp/qrterminal/v3"
)

// GenerateQRCode renders content as a half-block terminal QR code
func GenerateQRCode(content string) string {
	if content == "" {
		return ""
	}
	var b strings.Builder
	qrterminal.GenerateHalfBlock(content, qrterminal.L, &b)
	return b.String()
}
