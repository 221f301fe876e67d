// Package routes holds the self-registering route groups of the API.
package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
)

// Registrar mounts one route group. Middlewares that need deps (CIDR
// allowlist, host check, rate limit) are built inside the registrar.
type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

// Register is called from each file's init().
func Register(reg Registrar) {
	registry = append(registry, reg)
}

// RegisterAll mounts every group on r. Called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}
