package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/alexanderramin/moneyplan/internal/pagination"
	"github.com/alexanderramin/moneyplan/internal/repository"
)

// locationRouter is a pagination.Router whose location survives between
// runs in the locations table.
type locationRouter struct {
	ctx   context.Context
	repo  repository.LocationRepo
	route string
	cur   *url.URL
}

func newLocationRouter(ctx context.Context, repo repository.LocationRepo, route string) (*locationRouter, error) {
	r := &locationRouter{ctx: ctx, repo: repo, route: route, cur: &url.URL{Path: route}}
	stored, err := repo.Get(ctx, route)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return r, nil
	case err != nil:
		return nil, err
	}
	u, err := url.Parse(stored)
	if err != nil {
		return nil, fmt.Errorf("parsing stored location %q: %w", stored, err)
	}
	r.cur = u
	return r, nil
}

func (r *locationRouter) URL() *url.URL { return r.cur }

func (r *locationRouter) Replace(u *url.URL) error {
	if err := r.repo.Put(r.ctx, r.route, u.String()); err != nil {
		return err
	}
	r.cur = u
	return nil
}

// pageState returns the page state for route: remembered in the local
// database when one is wired, in memory otherwise.
func (a *App) pageState(ctx context.Context, route string) (pagination.State, error) {
	if a.Locations == nil {
		return pagination.NewLocalState(), nil
	}
	router, err := newLocationRouter(ctx, a.Locations, route)
	if err != nil {
		return nil, err
	}
	return pagination.NewQueryState(router, pagination.DefaultParam), nil
}
