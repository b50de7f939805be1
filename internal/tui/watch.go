package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakly/internal/progress"
)

// ProgressChangedMsg tells the model the store changed outside its own
// update loop, e.g. a timer tick or an intent from the display.
type ProgressChangedMsg struct{}

// WatchProgress forwards store changes to send as ProgressChangedMsg.
// Bursts are coalesced into one message and the store's writer never
// waits on the program. The returned function stops forwarding.
func WatchProgress(store *progress.Store, send func(tea.Msg)) func() {
	dirty := make(chan struct{}, 1)
	done := make(chan struct{})

	unsubscribe := store.Subscribe(func(progress.Change) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-dirty:
				send(ProgressChangedMsg{})
			}
		}
	}()

	return func() {
		unsubscribe()
		close(done)
	}
}
