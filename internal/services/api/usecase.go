package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/NordCoder/CloudCorrect/internal/domain/run"
	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1_000_000
)

type GroupEvaluator interface {
	EvaluateGroup(ctx context.Context, groupID uuid.UUID) (*engine.Outcome, error)
}

type Usecase struct {
	engine GroupEvaluator
	groups group.Repo
	runs   run.Repo
}

func NewUsecase(e GroupEvaluator, groups group.Repo, runs run.Repo) *Usecase {
	return &Usecase{engine: e, groups: groups, runs: runs}
}

func (u *Usecase) Evaluate(ctx context.Context, groupID uuid.UUID) (*engine.Outcome, error) {
	return u.engine.EvaluateGroup(ctx, groupID)
}

// History pages through a group's runs newest first. Out-of-range paging
// arguments fall back to the defaults.
func (u *Usecase) History(ctx context.Context, groupID uuid.UUID, page, limit int) (*run.Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if _, err := u.groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, engine.ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return u.runs.ListByGroup(ctx, groupID, page, limit)
}
