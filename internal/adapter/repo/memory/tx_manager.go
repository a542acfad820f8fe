package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx holds the store lock for fn and restores the previous rows if fn fails.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	before := t.store.snapshot()
	nextID := t.store.nextID
	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		t.store.meals = before
		t.store.nextID = nextID
		return err
	}
	return nil
}
