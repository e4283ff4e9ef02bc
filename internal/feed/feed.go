package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/rakibul966222/Rakib-pay/internal/models"
	"go.uber.org/zap"
)

// Lister provides the initial snapshot for a subscription, newest first.
type Lister interface {
	ListByParticipant(ctx context.Context, accountID string, limit int) ([]models.Transaction, error)
}

// Feed fans committed transactions out to live per-account subscriptions.
// Transactions are immutable, so the matching set only ever grows.
type Feed struct {
	store Lister
	log   *zap.Logger

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func New(store Lister, log *zap.Logger) *Feed {
	return &Feed{
		store: store,
		log:   log,
		subs:  make(map[*Subscription]struct{}),
	}
}

// Subscribe opens a live view over transactions touching accountID. The
// full current matching set is emitted immediately; every later insert
// touching the account re-emits the updated set. limit > 0 caps the view to
// the most recent limit entries. Close releases the subscription; nothing is
// delivered after Close returns.
func (f *Feed) Subscribe(ctx context.Context, accountID string, limit int) (*Subscription, error) {
	sub := &Subscription{
		feed:      f,
		accountID: accountID,
		limit:     limit,
		updates:   make(chan []models.Transaction, 1),
		seen:      make(map[string]struct{}),
	}

	// Register before reading the snapshot. A transfer committing during
	// the store read is then either in the snapshot or published to the
	// live subscription; the seen dedup absorbs the overlap.
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	snapshot, err := f.store.ListByParticipant(ctx, accountID, limit)
	if err != nil {
		f.remove(sub)
		return nil, err
	}

	sub.merge(snapshot)
	return sub, nil
}

// Publish delivers a newly committed transaction to every matching
// subscription. Non-blocking: a slow consumer only ever misses intermediate
// snapshots, never the latest one.
func (f *Feed) Publish(txn models.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		if !txn.Involves(sub.accountID) {
			continue
		}
		sub.insert(txn)
	}
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

// Subscription is one cancelable live sequence of transaction snapshots.
type Subscription struct {
	feed      *Feed
	accountID string
	limit     int

	mu      sync.Mutex
	closed  bool
	seen    map[string]struct{}
	txs     []models.Transaction
	updates chan []models.Transaction
}

// Updates yields the ordered matching set: once right after Subscribe, then
// again after every change. The channel closes when the subscription is
// closed.
func (s *Subscription) Updates() <-chan []models.Transaction {
	return s.updates
}

// Close cancels the subscription and releases its resources. No update is
// delivered after Close returns.
func (s *Subscription) Close() {
	s.feed.remove(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)
}

func (s *Subscription) insert(txn models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// The initiator's read-your-writes view and the store snapshot can
	// both carry the same transaction.
	if _, dup := s.seen[txn.ID]; dup {
		return
	}
	s.seen[txn.ID] = struct{}{}

	s.txs = append(s.txs, txn)
	s.sortTrimLocked()
	s.emitLocked()
}

// merge folds the initial store snapshot into anything already published
// to the live subscription, then emits the combined set.
func (s *Subscription) merge(snapshot []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, txn := range snapshot {
		if _, dup := s.seen[txn.ID]; dup {
			continue
		}
		s.seen[txn.ID] = struct{}{}
		s.txs = append(s.txs, txn)
	}
	s.sortTrimLocked()
	s.emitLocked()
}

func (s *Subscription) sortTrimLocked() {
	sort.SliceStable(s.txs, func(i, j int) bool {
		a, b := s.txs[i], s.txs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})
	if s.limit > 0 && len(s.txs) > s.limit {
		s.txs = s.txs[:s.limit]
	}
}

// emitLocked pushes the current snapshot with latest-wins coalescing: if
// the consumer has not drained the previous snapshot, it is replaced.
func (s *Subscription) emitLocked() {
	snapshot := make([]models.Transaction, len(s.txs))
	copy(snapshot, s.txs)

	select {
	case s.updates <- snapshot:
	default:
		select {
		case <-s.updates:
		default:
		}
		s.updates <- snapshot
	}
}
