package ui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"kmadmin/internal/grid"
	"kmadmin/internal/model"
)

// ErrUnknownRoute is returned for hrefs no screen handles.
var ErrUnknownRoute = errors.New("unknown route")

// Navigator opens the screen an href points to.
type Navigator interface {
	NavigateTo(href string) tea.Cmd
}

// Route is a resolved href.
type Route struct {
	Screen model.Screen
	ID     int64
	Tab    int
}

// Router resolves hrefs produced by the column model, relative to the
// configured base path.
type Router struct {
	ctx      context.Context
	db       *sql.DB
	basePath string
}

func NewRouter(ctx context.Context, database *sql.DB, basePath string) *Router {
	return &Router{ctx: ctx, db: database, basePath: strings.TrimRight(basePath, "/")}
}

// Resolve parses href into a Route.
func (r *Router) Resolve(href string) (Route, error) {
	u, err := url.Parse(href)
	if err != nil {
		return Route{}, fmt.Errorf("invalid href %q: %w", href, err)
	}

	path := u.Path
	if r.basePath != "" {
		if path != r.basePath && !strings.HasPrefix(path, r.basePath+"/") {
			return Route{}, fmt.Errorf("%q outside %q: %w", href, r.basePath, ErrUnknownRoute)
		}
		path = strings.TrimPrefix(path, r.basePath)
	}

	switch path {
	case "/admin/cluster-detail":
		id, err := queryID(u, "clusterId")
		if err != nil {
			return Route{}, err
		}
		tab := grid.TabOverview
		if u.Fragment != "" {
			tab, err = strconv.Atoi(u.Fragment)
			if err != nil {
				return Route{}, fmt.Errorf("invalid tab %q: %w", u.Fragment, err)
			}
		}
		return Route{Screen: model.ScreenClusterDetail, ID: id, Tab: tab}, nil
	case "/info":
		id, err := queryID(u, "fileId")
		if err != nil {
			return Route{}, err
		}
		return Route{Screen: model.ScreenFileDetail, ID: id}, nil
	default:
		return Route{}, fmt.Errorf("%q: %w", href, ErrUnknownRoute)
	}
}

// NavigateTo resolves href and loads the target screen.
func (r *Router) NavigateTo(href string) tea.Cmd {
	route, err := r.Resolve(href)
	if err != nil {
		return func() tea.Msg { return model.ErrorMsg{Err: err} }
	}
	switch route.Screen {
	case model.ScreenClusterDetail:
		return loadClusterDetailCmd(r.ctx, r.db, route.ID, route.Tab)
	default:
		return loadFileDetailCmd(r.ctx, r.db, route.ID)
	}
}

func queryID(u *url.URL, name string) (int64, error) {
	raw := u.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in %q", name, u.String())
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return id, nil
}
