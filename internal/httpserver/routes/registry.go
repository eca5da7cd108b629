package routes

import (
	"fmt"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// Registrar mounts one area of the API.
type Registrar func(r chi.Router, d deps.Deps)

var registrars = map[string]Registrar{}

// Register adds an API area from a route file's init. Names are unique.
func Register(name string, reg Registrar) {
	if _, dup := registrars[name]; dup {
		panic(fmt.Sprintf("routes: %q registered twice", name))
	}
	registrars[name] = reg
}

// Names lists the registered areas in mount order.
func Names() []string {
	names := make([]string, 0, len(registrars))
	for name := range registrars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterAll mounts every area on r, by name so the route table is
// the same on every start.
func RegisterAll(r chi.Router, d deps.Deps) {
	names := Names()
	for _, name := range names {
		registrars[name](r, d)
	}
	if d.Logger != nil {
		d.Logger.Debug("routes registered", logger.Strings("areas", names))
	}
}
