package cli

import (
	"fmt"
	"time"

	"github.com/adnify/retrieval/internal/indexsvc"
	"github.com/schollz/progressbar/v3"
)

// progressReporter adapts indexsvc.Observer to a terminal progress bar,
// continuing the teacher's internal/cli/progress.go pattern.
type progressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
	total int
}

func newProgressReporter(quiet bool) *progressReporter {
	return &progressReporter{quiet: quiet}
}

func (p *progressReporter) observe(status indexsvc.Status) {
	if p.quiet {
		return
	}

	if status.Error != "" {
		fmt.Printf("\n✗ indexing error: %s\n", status.Error)
		return
	}

	if p.bar == nil && status.TotalFiles > 0 {
		p.total = status.TotalFiles
		p.bar = progressbar.NewOptions(status.TotalFiles,
			progressbar.OptionSetDescription("Indexing files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}
	if p.bar != nil {
		if status.TotalFiles != p.total {
			p.total = status.TotalFiles
			p.bar.ChangeMax(p.total)
		}
		p.bar.Set(status.IndexedFiles)
	}

	if !status.IsIndexing && p.bar != nil {
		p.bar.Finish()
		fmt.Println()
		fmt.Printf("✓ indexed %d files, %d chunks\n", status.TotalFiles, status.TotalChunks)
		p.bar = nil
	}
}
