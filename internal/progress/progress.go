package progress

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/bubbles/progress"
)

// Tracker shows a spinner for the target being scraped and a bar of how
// many targets are done. Spinners only animate on a terminal.
type Tracker struct {
	out       io.Writer
	bar       progress.Model
	spin      *spinner.Spinner
	total     int
	processed int
}

// New creates a Tracker writing to out. A nil out discards everything.
func New(out io.Writer) *Tracker {
	if out == nil {
		out = io.Discard
	}
	return &Tracker{
		out:  out,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		spin: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(out)),
	}
}

// SetTotal sets the number of targets in the run
func (p *Tracker) SetTotal(total int) {
	p.total = total
}

// Start indicates that a target is being processed
func (p *Tracker) Start(target string) {
	p.spin.Suffix = " " + formatTarget(target)
	p.spin.Start()
}

// Status replaces the spinner text for the current target
func (p *Tracker) Status(target, message string) {
	msg := " " + formatTarget(target)
	if message != "" {
		msg += " → " + message
	}
	p.spin.Suffix = msg
}

// Finish indicates that a target has been processed
func (p *Tracker) Finish(target string) {
	p.spin.Stop()
	p.processed++
	if p.total > 0 {
		fmt.Fprintf(p.out, "\rProgress: %s %d/%d %s\n",
			p.bar.ViewAs(p.Percent()), p.processed, p.total, formatTarget(target))
	}
}

// Percent returns the share of targets processed
func (p *Tracker) Percent() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.processed) / float64(p.total)
}

// Done stops any running spinner
func (p *Tracker) Done() {
	p.spin.Stop()
}

// formatTarget shortens long URLs to host and path tail
func formatTarget(target string) string {
	maxLen := 60
	if len(target) <= maxLen {
		return target
	}
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		path := u.Path
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		if room := maxLen - len(u.Host) - 3; room > 0 && len(path) > room {
			path = "..." + path[len(path)-room:]
		}
		return u.Host + path
	}
	return "..." + target[len(target)-maxLen:]
}
