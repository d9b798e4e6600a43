package cli

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// newFileProgress builds the per-file progress bar used by directory runs.
// It renders to stderr so stdout stays machine-readable.
func newFileProgress(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
	)
}
