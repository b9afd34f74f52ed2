// Package pagination windows an already-fetched list. The page number lives
// in a State: either in memory or in a query parameter of a Router location.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultParam is the query parameter QueryState uses unless told otherwise.
const DefaultParam = "page"

// State stores the requested page number. Page returns 1 when nothing is
// stored.
type State interface {
	Page() int
	SetPage(n int) error
}

// LocalState keeps the page in memory.
type LocalState struct {
	page int
}

func NewLocalState() *LocalState { return &LocalState{page: 1} }

func (s *LocalState) Page() int {
	if s.page < 1 {
		return 1
	}
	return s.page
}

func (s *LocalState) SetPage(n int) error {
	s.page = n
	return nil
}

// Router is the current location of a screen. Replace swaps the location in
// place without adding a history entry.
type Router interface {
	URL() *url.URL
	Replace(u *url.URL) error
}

// QueryState keeps the page in a query parameter of the router location.
// Page 1 is represented by the parameter being absent.
type QueryState struct {
	router Router
	param  string
}

func NewQueryState(router Router, param string) *QueryState {
	if param == "" {
		param = DefaultParam
	}
	return &QueryState{router: router, param: param}
}

func (s *QueryState) Page() int {
	u := s.router.URL()
	if u == nil {
		return 1
	}
	n, err := strconv.Atoi(u.Query().Get(s.param))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (s *QueryState) SetPage(n int) error {
	cur := s.router.URL()
	next := &url.URL{}
	if cur != nil {
		clone := *cur
		next = &clone
	}
	q := next.Query()
	if n <= 1 {
		q.Del(s.param)
	} else {
		q.Set(s.param, strconv.Itoa(n))
	}
	next.RawQuery = q.Encode()
	if cur != nil && next.String() == cur.String() {
		return nil
	}
	if err := s.router.Replace(next); err != nil {
		return fmt.Errorf("updating page parameter: %w", err)
	}
	return nil
}

// Paginator derives page bounds from a total item count and a page size.
type Paginator struct {
	state    State
	pageSize int
	total    int
}

// New creates a Paginator. A page size below 1 is treated as 1.
func New(state State, pageSize int) *Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	if state == nil {
		state = NewLocalState()
	}
	return &Paginator{state: state, pageSize: pageSize}
}

// SetTotal records how many items the full list has.
func (p *Paginator) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
}

func (p *Paginator) PageSize() int   { return p.pageSize }
func (p *Paginator) TotalItems() int { return p.total }

// TotalPages is ceil(total / pageSize); an empty list has zero pages.
func (p *Paginator) TotalPages() int {
	return (p.total + p.pageSize - 1) / p.pageSize
}

// CurrentPage is the stored page clamped into [1, TotalPages].
func (p *Paginator) CurrentPage() int {
	page := p.state.Page()
	if last := p.TotalPages(); page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	return page
}

// InRange reports whether n is a page GoToPage would accept.
func (p *Paginator) InRange(n int) bool {
	return n >= 1 && n <= p.TotalPages()
}

// GoToPage moves to page n. Out-of-range pages are ignored.
func (p *Paginator) GoToPage(n int) error {
	if !p.InRange(n) {
		return nil
	}
	return p.state.SetPage(n)
}

func (p *Paginator) GoToNextPage() error     { return p.GoToPage(p.CurrentPage() + 1) }
func (p *Paginator) GoToPreviousPage() error { return p.GoToPage(p.CurrentPage() - 1) }

func (p *Paginator) HasNext() bool     { return p.CurrentPage() < p.TotalPages() }
func (p *Paginator) HasPrevious() bool { return p.CurrentPage() > 1 }

// Sync writes the derived current page back into the state, e.g. after the
// list shrank below a bookmarked page or the location carries a page
// parameter that reads as page 1. States skip writes that change nothing.
func (p *Paginator) Sync() error {
	return p.state.SetPage(p.CurrentPage())
}

// Bounds returns the half-open index range of the current page.
func (p *Paginator) Bounds() (start, end int) {
	start = (p.CurrentPage() - 1) * p.pageSize
	if start > p.total {
		start = p.total
	}
	end = start + p.pageSize
	if end > p.total {
		end = p.total
	}
	return start, end
}

// Items returns the current window of all. The paginator's total is taken
// from len(all).
func Items[T any](p *Paginator, all []T) []T {
	p.SetTotal(len(all))
	start, end := p.Bounds()
	return all[start:end]
}
