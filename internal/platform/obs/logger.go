package obs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger. APP_ENV=dev gets a console writer on
// stdout, anything else gets JSON lines on w. Every entry carries component.
func NewLogger(w io.Writer, env, component string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(env, "dev") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}
