package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
)

// bannerNotifier prints a ringing alarm to the terminal, with a bell when
// the output is interactive.
type bannerNotifier struct {
	mu   sync.Mutex
	w    io.Writer
	bell bool
}

func newBannerNotifier(w io.Writer, bell bool) *bannerNotifier {
	return &bannerNotifier{w: w, bell: bell}
}

func (n *bannerNotifier) Notify(_ context.Context, alarm models.Alarm) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bell {
		fmt.Fprint(n.w, "\a")
	}
	fmt.Fprintf(n.w, "\n*** ALARM %s  %s ***\ntype 'dismiss' or 'snooze'\n", alarm.Time(), alarm.Label)
}
