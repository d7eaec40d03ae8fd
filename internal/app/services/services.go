package services

import (
	"context"
	"fmt"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// Transactor runs fn inside one database transaction carried by ctx
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

func requireView(a *auth.Actor, entity string) error {
	if !auth.CanView(a, entity) {
		return apperrors.NewForbiddenError(fmt.Sprintf("you may not view %s entries", entity))
	}
	return nil
}

func requireAdd(a *auth.Actor, entity string) error {
	if !auth.CanAdd(a, entity) || !auth.CanChange(a, entity, nil) {
		return apperrors.NewForbiddenError(fmt.Sprintf("you may not add %s entries", entity))
	}
	return nil
}

// requireChange checks a row when owners is non-nil and the change list otherwise
func requireChange(a *auth.Actor, entity string, owners []int64) error {
	if !auth.CanChange(a, entity, owners) {
		return apperrors.NewForbiddenError(fmt.Sprintf("you may not change this %s", entity))
	}
	return nil
}

func requireDelete(a *auth.Actor, entity string, owners []int64) error {
	if !auth.CanDelete(a, entity, owners) {
		return apperrors.NewForbiddenError(fmt.Sprintf("you may not delete this %s", entity))
	}
	return nil
}

// ownerSet turns a missing relation into an empty one so row checks never fall back to list level
func ownerSet(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func requireIDs(ids []int64) error {
	if len(ids) == 0 {
		return apperrors.NewValidationError("ids", "select at least one row")
	}
	return nil
}
