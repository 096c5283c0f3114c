package database

import (
	"sync"

	"github.com/tablero-app/tablero/internal/gateway"
	"github.com/tablero-app/tablero/internal/models"
)

// feed is the in-process change feed: after every committed write the
// store broadcasts a fresh full snapshot to every subscriber of the
// affected board. Each subscriber gets its own delivery goroutine and
// buffered channel so a slow consumer cannot stall the writer; when
// the buffer fills, older undelivered snapshots are dropped in favor
// of newer ones (only the latest full snapshot matters).
type feed struct {
	mu     sync.Mutex
	nextID int
	seq    int64
	subs   map[int]map[int]*subscriber // boardID -> subID -> subscriber
}

type subscriber struct {
	ch         chan models.Snapshot
	onSnapshot gateway.SnapshotFunc
	onError    gateway.ErrorFunc
	done       chan struct{}
}

func newFeed() *feed {
	return &feed{
		nextID: 1,
		subs:   make(map[int]map[int]*subscriber),
	}
}

// subscribe registers a consumer for one board's snapshots and returns
// its teardown function.
func (f *feed) subscribe(boardID int, onSnapshot gateway.SnapshotFunc, onError gateway.ErrorFunc) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &subscriber{
		ch:         make(chan models.Snapshot, 8),
		onSnapshot: onSnapshot,
		onError:    onError,
		done:       make(chan struct{}),
	}
	id := f.nextID
	f.nextID++

	if f.subs[boardID] == nil {
		f.subs[boardID] = make(map[int]*subscriber)
	}
	f.subs[boardID][id] = sub

	go sub.deliver()

	return func() {
		f.mu.Lock()
		if subs, ok := f.subs[boardID]; ok {
			if s, ok := subs[id]; ok {
				delete(subs, id)
				close(s.done)
			}
		}
		f.mu.Unlock()
	}
}

// broadcast pushes a snapshot to every subscriber of its board.
func (f *feed) broadcast(snap models.Snapshot) {
	f.mu.Lock()
	f.seq++
	snap.Seq = f.seq
	targets := make([]*subscriber, 0, len(f.subs[snap.BoardID]))
	for _, sub := range f.subs[snap.BoardID] {
		targets = append(targets, sub)
	}
	f.mu.Unlock()

	for _, sub := range targets {
		sub.push(snap)
	}
}

// fail delivers a fatal error to every subscriber of a board.
func (f *feed) fail(boardID int, err error) {
	f.mu.Lock()
	targets := make([]*subscriber, 0, len(f.subs[boardID]))
	for _, sub := range f.subs[boardID] {
		targets = append(targets, sub)
	}
	f.mu.Unlock()

	for _, sub := range targets {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

// push enqueues a snapshot, dropping the oldest queued one if the
// subscriber is behind.
func (s *subscriber) push(snap models.Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		case <-s.done:
			return
		default:
		}
		select {
		case <-s.ch: // drop the stalest queued snapshot
		default:
		}
	}
}

func (s *subscriber) deliver() {
	for {
		select {
		case snap := <-s.ch:
			s.onSnapshot(snap)
		case <-s.done:
			return
		}
	}
}
