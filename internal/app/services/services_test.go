package services

import (
	"context"

	"github.com/yigit/judgeadmin/internal/app/auth"
)

// fakeTx runs fn in place and counts transactions
type fakeTx struct {
	calls int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func actorWith(entity string, extra ...auth.Capability) *auth.Actor {
	caps := append([]auth.Capability{
		auth.AddCapability(entity),
		auth.ChangeCapability(entity),
		auth.DeleteCapability(entity),
	}, extra...)
	return auth.NewActor(1, 10, caps...)
}

func int64Ptr(v int64) *int64 { return &v }
