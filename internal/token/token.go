// Package token mints the opaque bearer tokens stored with a session.
// Tokens are never verified; they only have to be unique per session.
package token

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/bizdesk/internal/common"
)

const (
	sessionPrefix = "session_"
	demoPrefix    = "demo_token_"
	randomLen     = 11
	alphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var now = time.Now

// NewSession returns session_<epoch-ms>_<11 base36 chars>.
func NewSession() string {
	raw := common.GenerateRandByteArray(randomLen)
	suffix := make([]byte, randomLen)
	for i, b := range raw {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return sessionPrefix + strconv.FormatInt(now().UnixMilli(), 10) + "_" + string(suffix)
}

// NewDemo returns demo_token_<epoch-ms>.
func NewDemo() string {
	return demoPrefix + strconv.FormatInt(now().UnixMilli(), 10)
}
