// Package web implements the calcpad HTTP surface: a JSON API for
// evaluation and formula management, and the embedded calculator UI.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/calcpad/pkg/expr"
	"github.com/lemonberrylabs/calcpad/pkg/keypad"
	"github.com/lemonberrylabs/calcpad/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the calcpad HTTP server.
type Server struct {
	app   *fiber.App
	store *store.Store
	tmpl  *template.Template
}

// New creates a new server over the given formula store.
func New(s *store.Store) *Server {
	srv := &Server{
		store: s,
		tmpl: template.Must(
			template.New("").Funcs(template.FuncMap{"join": strings.Join}).ParseFS(templateFS, "templates/*.html"),
		),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Post("/api/eval", srv.evalExpression)
	app.Get("/api/variables", srv.listVariables)
	app.Get("/api/functions", srv.listFunctions)

	app.Post("/api/formulas", srv.createFormula)
	app.Get("/api/formulas", srv.listFormulas)
	app.Get("/api/formulas/:name", srv.getFormula)
	app.Put("/api/formulas/:name", srv.updateFormula)
	app.Delete("/api/formulas/:name", srv.deleteFormula)
	app.Get("/api/formulas/:name/variables", srv.formulaVariables)
	app.Post("/api/formulas/:name/eval", srv.evalFormula)

	app.Get("/", srv.calculatorPage)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// --- Evaluation Handlers ---

type evalRequest struct {
	Expression string             `json:"expression"`
	Variables  map[string]float64 `json:"variables"`
}

// resultEnvelope is the successful evaluation response. Result is a pointer
// because NaN has no JSON encoding; it is null then, and Display carries the
// "Error" state the UI shows.
type resultEnvelope struct {
	Result  *float64 `json:"result"`
	Display string   `json:"display"`
}

func resultJSON(v float64) resultEnvelope {
	env := resultEnvelope{Display: keypad.FormatResult(v)}
	if !math.IsNaN(v) {
		env.Result = &v
	}
	return env
}

func (s *Server) evalExpression(c *fiber.Ctx) error {
	var req evalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	v, err := expr.Evaluate(req.Expression, req.Variables)
	if err != nil {
		return expressionError(c, err)
	}
	return c.JSON(resultJSON(v))
}

func (s *Server) listVariables(c *fiber.Ctx) error {
	// Best-effort by contract: invalid input yields an empty list, not 4xx.
	names := expr.ExtractVariables(c.Query("expression"))
	return c.JSON(fiber.Map{"variables": names})
}

func (s *Server) listFunctions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"functions": expr.Functions()})
}

// --- Formula Handlers ---

type formulaRequest struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

func (s *Server) createFormula(c *fiber.Ctx) error {
	var req formulaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	f, err := s.store.Create(req.Name, req.Expression)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return errorStatus(c, fiber.StatusConflict, err)
		}
		return expressionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (s *Server) listFormulas(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"formulas": s.store.List()})
}

func (s *Server) getFormula(c *fiber.Ctx) error {
	f, err := s.store.Get(c.Params("name"))
	if err != nil {
		return errorStatus(c, fiber.StatusNotFound, err)
	}
	return c.JSON(f)
}

func (s *Server) updateFormula(c *fiber.Ctx) error {
	var req formulaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	f, err := s.store.Update(c.Params("name"), req.Expression)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return errorStatus(c, fiber.StatusNotFound, err)
		}
		return expressionError(c, err)
	}
	return c.JSON(f)
}

func (s *Server) deleteFormula(c *fiber.Ctx) error {
	if err := s.store.Delete(c.Params("name")); err != nil {
		return errorStatus(c, fiber.StatusNotFound, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) formulaVariables(c *fiber.Ctx) error {
	f, err := s.store.Get(c.Params("name"))
	if err != nil {
		return errorStatus(c, fiber.StatusNotFound, err)
	}
	return c.JSON(fiber.Map{"variables": f.Variables})
}

type formulaEvalRequest struct {
	Variables map[string]float64 `json:"variables"`
}

func (s *Server) evalFormula(c *fiber.Ctx) error {
	var req formulaEvalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	v, err := s.store.Evaluate(c.Params("name"), req.Variables)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return errorStatus(c, fiber.StatusNotFound, err)
		}
		return expressionError(c, err)
	}
	return c.JSON(resultJSON(v))
}

// --- UI ---

type pageData struct {
	Formulas  []*store.Formula
	Functions []string
}

func (s *Server) calculatorPage(c *fiber.Ctx) error {
	var buf bytes.Buffer
	data := pageData{Formulas: s.store.List(), Functions: expr.Functions()}
	if err := s.tmpl.ExecuteTemplate(&buf, "calculator.html", data); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("template error: %v", err))
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// --- Error envelopes ---

// expressionError maps engine failures to 422 with a machine-readable kind.
func expressionError(c *fiber.Ctx, err error) error {
	var lexErr *expr.LexError
	if errors.As(err, &lexErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fiber.Map{
				"kind":    "UnexpectedCharacter",
				"message": lexErr.Error(),
				"pos":     lexErr.Pos,
			},
		})
	}
	var parseErr *expr.ParseError
	if errors.As(err, &parseErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fiber.Map{
				"kind":    string(parseErr.Kind),
				"message": parseErr.Error(),
				"pos":     parseErr.Pos,
			},
		})
	}
	return badRequest(c, err.Error())
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{"kind": "BadRequest", "message": msg},
	})
}

func errorStatus(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"kind": statusKind(status), "message": err.Error()},
	})
}

func statusKind(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NotFound"
	case fiber.StatusConflict:
		return "AlreadyExists"
	default:
		return "Error"
	}
}
