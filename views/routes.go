package views

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// Permissions checked by the role routes.
const (
	PermList = "roles.list"
	PermEdit = "roles.edit"
)

var (
	ErrNoRoute        = errors.New("no route")
	ErrDuplicateRoute = errors.New("route already registered")
)

// Route maps a path pattern onto a component and the permission it needs.
type Route struct {
	Path       string // relative, e.g. "edit/{id}"
	Component  string
	Permission string
}

// RouteTable resolves relative view paths. It is built by the host and
// imported by the module.
type RouteTable struct {
	name   string
	router *mux.Router
	routes map[string]Route
}

// NewRouteTable returns an empty table identified by name.
func NewRouteTable(name string) *RouteTable {
	return &RouteTable{name: name, router: mux.NewRouter(), routes: map[string]Route{}}
}

// RoleRoutes is the default table of the role feature: the list at "",
// the add form at "add" and the edit form at "edit/{id}".
func RoleRoutes() *RouteTable {
	rt := NewRouteTable("roles-routing")
	for _, r := range []Route{
		{Path: "", Component: ListComponentName, Permission: PermList},
		{Path: "add", Component: AddEditComponentName, Permission: PermEdit},
		{Path: "edit/{id}", Component: AddEditComponentName, Permission: PermEdit},
	} {
		if err := rt.Add(r); err != nil {
			panic(err)
		}
	}
	return rt
}

func (rt *RouteTable) ImportName() string { return rt.name }

// Add registers r.
func (rt *RouteTable) Add(r Route) error {
	pattern := "/" + strings.Trim(r.Path, "/")
	if _, exists := rt.routes[pattern]; exists {
		return ErrDuplicateRoute
	}
	rt.routes[pattern] = r
	rt.router.Path(pattern).Name(pattern)
	return nil
}

// Resolve matches path and returns the route with its path variables.
func (rt *RouteTable) Resolve(path string) (Route, map[string]string, error) {
	req := &http.Request{
		Method: http.MethodGet,
		URL:    &url.URL{Path: "/" + strings.Trim(path, "/")},
	}

	var match mux.RouteMatch
	if !rt.router.Match(req, &match) || match.Route == nil {
		return Route{}, nil, ErrNoRoute
	}
	route, ok := rt.routes[match.Route.GetName()]
	if !ok {
		return Route{}, nil, ErrNoRoute
	}
	return route, match.Vars, nil
}

// Routes lists the registered routes.
func (rt *RouteTable) Routes() []Route {
	out := make([]Route, 0, len(rt.routes))
	_ = rt.router.Walk(func(r *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if route, ok := rt.routes[r.GetName()]; ok {
			out = append(out, route)
		}
		return nil
	})
	return out
}
