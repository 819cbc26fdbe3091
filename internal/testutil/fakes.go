package testutil

import (
	"context"
	"sync"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/contract"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/notification"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

var (
	_ notification.Dispatcher = (*RecordingNotifier)(nil)
	_ contract.Generator      = (*FakeContractGenerator)(nil)
)

// RecordingNotifier keeps every notification it was asked to deliver
type RecordingNotifier struct {
	mu    sync.Mutex
	sent  []notification.Notification
	err   error
	panic bool
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Notify(_ context.Context, msg notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.panic {
		panic("notification transport exploded")
	}
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

// FailWith makes every following delivery fail with err
func (n *RecordingNotifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

// PanicOnNotify makes every following delivery panic
func (n *RecordingNotifier) PanicOnNotify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.panic = true
}

func (n *RecordingNotifier) Sent() []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Notification(nil), n.sent...)
}

// OfKind returns the delivered notifications of one kind
func (n *RecordingNotifier) OfKind(kind types.NotificationKind) []notification.Notification {
	return lo.Filter(n.Sent(), func(msg notification.Notification, _ int) bool {
		return msg.Kind == kind
	})
}

func (n *RecordingNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
	n.err = nil
	n.panic = false
}

// FakeContractGenerator records the leases contracts were requested for
type FakeContractGenerator struct {
	mu     sync.Mutex
	leases []string
	err    error
}

func NewFakeContractGenerator() *FakeContractGenerator {
	return &FakeContractGenerator{}
}

func (g *FakeContractGenerator) GenerateForLease(_ context.Context, leaseID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.leases = append(g.leases, leaseID)
	return nil
}

func (g *FakeContractGenerator) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *FakeContractGenerator) Leases() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.leases...)
}

func (g *FakeContractGenerator) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leases = nil
	g.err = nil
}
