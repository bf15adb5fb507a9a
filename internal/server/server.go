// Package server serves the analyzer as a small web UI plus a JSON API.
// Every request runs its own analysis with a fresh endpoint binding; the
// server keeps no per-user state.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/config"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/output"
	"github.com/dmagro/evm-tx-analyzer/internal/tree"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	catalog  *i18n.Catalog
	log      logrus.FieldLogger
	app      *fiber.App
}

func New(cfg *config.Config, a *analyzer.Analyzer, catalog *i18n.Catalog, log logrus.FieldLogger) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: a,
		catalog:  catalog,
		log:      log.WithField("component", "server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "evm-tx-analyzer",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())
	app.Use(s.logRequests)

	app.Get("/health", health)
	app.Get("/", s.index)
	app.Get("/analyze", s.analyzePage)
	app.Get("/api/analyze", s.analyzeJSON)
	if cfg.Server.Metrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	s.app = app
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Start listens on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("starting web server")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down web server")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func health(c *fiber.Ctx) error {
	return c.SendString("OK")
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.log.WithFields(logrus.Fields{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  c.Response().StatusCode(),
		"latency": time.Since(start),
	}).Debug("handled request")

	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// localizer picks the language from ?lang=, falling back to the configured
// default.
func (s *Server) localizer(c *fiber.Ctx) i18n.Localizer {
	lang := i18n.Language(c.Query("lang", s.cfg.Defaults.Language))
	return s.catalog.Localizer(lang)
}

// endpoint resolves ?rpc= (an explicit URL) or ?endpoint= (a configured
// name), then defaults.endpoint. Neither given yields an empty ad-hoc URL,
// which the analyzer reports as missing input.
func (s *Server) endpoint(c *fiber.Ctx) (config.Endpoint, error) {
	if raw := strings.TrimSpace(c.Query("rpc")); raw != "" {
		return s.cfg.AdHoc(raw), nil
	}
	name := c.Query("endpoint")
	if name == "" && s.cfg.Defaults.Endpoint == "" {
		return s.cfg.AdHoc(""), nil
	}
	ep, err := s.cfg.Endpoint(name)
	if err != nil {
		return config.Endpoint{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ep, nil
}

func (s *Server) analyzeJSON(c *fiber.Ctx) error {
	loc := s.localizer(c)
	ep, err := s.endpoint(c)
	if err != nil {
		return err
	}

	res, err := s.analyzer.Analyze(c.UserContext(), analyzer.Request{Endpoint: ep, TxHash: c.Query("hash")})
	if err != nil {
		report := output.NewJSONErrorReport(err, loc)
		return c.Status(statusFor(report.Error.Kind)).JSON(report)
	}

	return c.JSON(output.NewJSONReport(res, res.Tree(loc), loc))
}

func statusFor(kind analyzer.Kind) int {
	switch kind {
	case analyzer.InputMissing:
		return fiber.StatusBadRequest
	case analyzer.TraceUnavailable, analyzer.TransactionUnavailable:
		return fiber.StatusNotFound
	case analyzer.TransportError:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

type languageLink struct {
	Name   i18n.Language
	URL    string
	Active bool
}

type infoRow struct {
	Label string
	Value string
}

type pageData struct {
	loc i18n.Localizer

	Lang      i18n.Language
	Languages []languageLink
	RPC       string
	Hash      string
	Error     *output.JSONError

	Analyzed   bool
	Info       []infoRow
	Signature  []string
	Tree       template.HTML
	TraceError *output.JSONError
}

// T looks up a message for the template.
func (p pageData) T(key string) string {
	return p.loc.T(i18n.Key(key))
}

func (s *Server) newPage(c *fiber.Ctx, loc i18n.Localizer) *pageData {
	p := &pageData{
		loc:  loc,
		Lang: loc.Language(),
		RPC:  c.Query("rpc"),
		Hash: c.Query("hash"),
	}

	// Switching language re-runs the same request in the new language.
	for _, lang := range s.catalog.Languages() {
		q := url.Values{}
		for _, k := range []string{"rpc", "endpoint", "hash"} {
			if v := c.Query(k); v != "" {
				q.Set(k, v)
			}
		}
		q.Set("lang", string(lang))

		path := "/"
		if c.Path() == "/analyze" {
			path = "/analyze"
		}
		p.Languages = append(p.Languages, languageLink{
			Name:   lang,
			URL:    path + "?" + q.Encode(),
			Active: lang == loc.Language(),
		})
	}
	return p
}

func (s *Server) index(c *fiber.Ctx) error {
	return s.renderPage(c, s.newPage(c, s.localizer(c)))
}

func (s *Server) analyzePage(c *fiber.Ctx) error {
	loc := s.localizer(c)
	page := s.newPage(c, loc)

	ep, err := s.endpoint(c)
	if err != nil {
		return err
	}

	res, err := s.analyzer.Analyze(c.UserContext(), analyzer.Request{Endpoint: ep, TxHash: page.Hash})
	if err != nil {
		page.Error = output.NewJSONError(analyzer.AsError(err), loc)
		c.Status(statusFor(page.Error.Kind))
		return s.renderPage(c, page)
	}

	page.Analyzed = true
	for _, f := range res.Info {
		label, value := f.Render(loc)
		page.Info = append(page.Info, infoRow{Label: label, Value: value})
	}
	page.Signature = res.Signature.Lines(loc)

	if tr := res.Tree(loc); tr != nil {
		page.Tree, err = tree.HTML(tr)
		if err != nil {
			page.TraceError = output.NewJSONError(analyzer.AsError(err), loc)
		}
	} else {
		page.TraceError = output.NewJSONError(res.TraceErr, loc)
	}

	return s.renderPage(c, page)
}

func (s *Server) renderPage(c *fiber.Ctx, page *pageData) error {
	var b strings.Builder
	if err := pageTemplate.Execute(&b, page); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(b.String())
}
