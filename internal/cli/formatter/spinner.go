package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// StartSpinner draws an animated message on w until the returned func is
// called. The func clears the line, waits for the animation to exit and may
// be called more than once.
func StartSpinner(w io.Writer, message string) func() {
	quit := make(chan struct{})
	exited := make(chan struct{})
	label := Dim(message)

	go func() {
		defer close(exited)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-quit:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-tick.C:
				fmt.Fprintf(w, "\r  %s %s", StylePurple.Render(spinnerFrames[frame%len(spinnerFrames)]), label)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
		<-exited
	}
}
