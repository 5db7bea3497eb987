package mocks

import (
	"context"

	"cinema-reservation/pkg/database"
)

// FakeTransactor runs fn directly and counts outcomes. BeginErr simulates a
// failure to open the transaction.
type FakeTransactor struct {
	BeginErr   error
	Commits    int
	Rollbacks  int
	LastResult error
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn database.TxFunc) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}

	err := fn(ctx, nil)
	f.LastResult = err
	if err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}
