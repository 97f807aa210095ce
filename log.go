package paragrep

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the package-level diagnostics logger. It writes to stderr only
// (stdout is reserved for matching paragraphs) and defaults to Warn; the
// CLI raises it to Debug under --verbose.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.WarnLevel)
}
