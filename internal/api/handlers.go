// Package api wires the catalog/search services into an HTTP surface,
// adapted from the teacher's Fiber app shape (cmd/server/main.go,
// internal/api/progress.go) and grounded on
// original_source/src/queries.rs and src/queries/endpoints/*.rs for
// the route table itself (spec.md §6 / SPEC_FULL.md §6).
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nethserver/pkg-registry/internal/catalog"
	"github.com/nethserver/pkg-registry/internal/model"
	"github.com/nethserver/pkg-registry/internal/progress"
	"github.com/nethserver/pkg-registry/internal/search"
)

// Server holds the wired services an api.New router dispatches to.
type Server struct {
	catalog    *catalog.Service
	search     *search.Service
	progress   *progress.Hub
	authSecret string
}

// New builds the Fiber app: middleware, routes, and the websocket
// progress endpoint.
func New(catalogSvc *catalog.Service, searchSvc *search.Service, hub *progress.Hub, authSecret, corsOrigin string) *fiber.App {
	s := &Server{catalog: catalogSvc, search: searchSvc, progress: hub, authSecret: authSecret}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(loggingMiddleware)
	app.Use(newCORS(corsOrigin))

	app.Put("/authenticate", s.handleAuthenticate)

	app.Post("/package", requireAuth, s.handlePostPackage)
	app.Put("/package/:id", requireAuth, s.handlePutPackage)
	app.Get("/package/:id", requireAuth, s.handleGetPackage)
	app.Delete("/package/:id", requireAuth, s.handleDeletePackage)
	app.Get("/package/:id/rate", requireAuth, s.handleGetRating)

	app.Get("/package/byName/:name", requireAuth, s.handleGetPackageByName)
	app.Delete("/package/byName/:name", requireAuth, s.handleDeletePackageByName)
	app.Get("/package/byRegEx", requireAuth, s.handleSearchByRegEx)

	app.Post("/packages", requireAuth, s.handleSearchPackages)
	app.Delete("/reset", requireAuth, s.handleReset)

	registerProgressRoute(app, hub)

	return app
}

func (s *Server) handlePostPackage(c *fiber.Ctx) error {
	var data model.PackageData
	if err := c.BodyParser(&data); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	pkg, err := s.catalog.PostPackage(c.Context(), data)
	if err != nil {
		return writeErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func (s *Server) handlePutPackage(c *fiber.Ctx) error {
	var pkg model.Package
	if err := c.BodyParser(&pkg); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := s.catalog.UpdatePackageByID(c.Context(), c.Params("id"), pkg); err != nil {
		return writeErr(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleGetPackage(c *fiber.Ctx) error {
	pkg, err := s.catalog.GetPackageByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(pkg)
}

// handleDeletePackage is a 501 stub: delete_package_by_id is explicitly
// not required for baseline (spec.md §4's "Destroyed by reset_registry
// ... or delete_package_by_id (not required for baseline)").
func (s *Server) handleDeletePackage(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNotImplemented)
}

func (s *Server) handleGetRating(c *fiber.Ctx) error {
	rating, err := s.catalog.GetRatingByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(rating)
}

func (s *Server) handleSearchPackages(c *fiber.Ctx) error {
	var queries []model.SearchQuery
	if err := c.BodyParser(&queries); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if len(queries) < 1 {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if len(queries) > 1 {
		return c.SendStatus(fiber.StatusRequestEntityTooLarge)
	}

	result, err := s.search.Search(c.Context(), queries[0], c.Query("offset"))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if result.NextOffset != "" {
		c.Set("offset", result.NextOffset)
	}
	return c.JSON(result.Packages)
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	if err := s.catalog.ResetRegistry(c.Context()); err != nil {
		return writeErr(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// handleGetPackageByName lists every stored version's metadata for a
// name (history-less: the current row set, not a revision log, since
// revision history is a Non-goal — SPEC_FULL.md §6).
func (s *Server) handleGetPackageByName(c *fiber.Ctx) error {
	result, err := s.search.Search(c.Context(), model.SearchQuery{Name: c.Params("name")}, "")
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if len(result.Packages) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(result.Packages)
}

// handleDeletePackageByName removes every version of a name in one
// batch: it looks the name up via the same search path
// handleGetPackageByName uses, then runs catalog.DeletePackageByID per
// matching id (SPEC_FULL.md §6).
func (s *Server) handleDeletePackageByName(c *fiber.Ctx) error {
	result, err := s.search.Search(c.Context(), model.SearchQuery{Name: c.Params("name")}, "")
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if len(result.Packages) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	for _, pkg := range result.Packages {
		if dErr := s.catalog.DeletePackageByID(c.Context(), string(pkg.ID)); dErr != nil {
			return writeErr(c, dErr)
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

// handleSearchByRegEx is a thin 501 stub: fuzzy/full-text search is an
// explicit Non-goal (spec.md §1), matching the original's own
// StatusCode::NOT_IMPLEMENTED placeholder (src/queries.rs).
func (s *Server) handleSearchByRegEx(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNotImplemented)
}
