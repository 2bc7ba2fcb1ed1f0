package feed

import "context"

// MemoryFeed delivers notifications inside one process.
type MemoryFeed struct {
	reg *registry
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{reg: newRegistry()}
}

func (f *MemoryFeed) Publish(ctx context.Context, roomID string) error {
	f.reg.notify(roomID)
	return nil
}

func (f *MemoryFeed) Subscribe(roomID string, onChange func()) (func(), error) {
	return f.reg.add(roomID, onChange), nil
}

// Subscribers is the number of live subscriptions for a room.
func (f *MemoryFeed) Subscribers(roomID string) int {
	return f.reg.count(roomID)
}

func (f *MemoryFeed) Close() error {
	f.reg.clear()
	return nil
}
