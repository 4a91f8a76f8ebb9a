package output

import (
	"io"

	"github.com/pterm/pterm"
)

// Spinner shows progress for a long step. In non-text modes it is silent.
type Spinner struct {
	w       io.Writer
	text    string
	enabled bool
	sp      *pterm.SpinnerPrinter
}

// NewSpinner creates a spinner writing to the renderer's error stream.
func (r *Renderer) NewSpinner(text string) *Spinner {
	return &Spinner{w: r.errOut, text: text, enabled: r.EffectiveMode() == ModeText && r.isTTY}
}

// Start begins animating.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}
	sp, err := pterm.DefaultSpinner.WithWriter(s.w).WithRemoveWhenDone(false).Start(s.text)
	if err == nil {
		s.sp = sp
	}
}

// Update replaces the spinner text.
func (s *Spinner) Update(text string) {
	s.text = text
	if s.sp != nil {
		s.sp.UpdateText(text)
	}
}

// Success stops the spinner with a success mark.
func (s *Spinner) Success(msg string) {
	if s.sp != nil {
		s.sp.Success(msg)
		s.sp = nil
	}
}

// Fail stops the spinner with a failure mark.
func (s *Spinner) Fail(msg string) {
	if s.sp != nil {
		s.sp.Fail(msg)
		s.sp = nil
	}
}

// Stop stops the spinner without a final message.
func (s *Spinner) Stop() {
	if s.sp != nil {
		_ = s.sp.Stop()
		s.sp = nil
	}
}
