package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
	"github.com/five82/atlas/internal/ui"
)

// Sender accepts messages for a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

type snapshotSource interface {
	Subscribe(fn func(state.Snapshot)) func()
}

type favoritesSource interface {
	Subscribe(fn func([]restcountries.Country)) func()
}

// StartBridge forwards coordinator and favorites notifications to sender from
// a background goroutine. Favorites notify from inside the UI's Update, so
// callbacks must not block: they park the newest value in a one-slot mailbox.
// The returned func unsubscribes and waits for the goroutine to exit.
func StartBridge(ctx context.Context, sender Sender, snapshots snapshotSource, favs favoritesSource) func() {
	ctx, cancel := context.WithCancel(ctx)

	snapCh := make(chan state.Snapshot, 1)
	favCh := make(chan []restcountries.Country, 1)

	var unsubs []func()
	if snapshots != nil {
		unsubs = append(unsubs, snapshots.Subscribe(func(s state.Snapshot) { offerLatest(snapCh, s) }))
	}
	if favs != nil {
		unsubs = append(unsubs, favs.Subscribe(func(items []restcountries.Country) { offerLatest(favCh, items) }))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-snapCh:
				sender.Send(ui.SnapshotMsg(s))
			case items := <-favCh:
				sender.Send(ui.FavoritesMsg(items))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, unsub := range unsubs {
				unsub()
			}
			cancel()
			<-done
		})
	}
}

// offerLatest puts v in the one-slot channel ch, replacing any value not yet
// consumed.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
