// Package server exposes a channel catalog over a read-only HTTP API.
//
// Channel names in paths use the dash form ("Al_poly-Ti_poly", "Be-thin")
// since a slash would split the path. Any form accepted by
// xrt.ResolveFilterName works in the name query parameter of /resolve.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robert-malhotra/go-xrt/internal/export"
	"github.com/robert-malhotra/go-xrt/units"
	"github.com/robert-malhotra/go-xrt/xrt"
)

// Server serves one catalog. The catalog is never mutated, so handlers
// share it without locking.
type Server struct {
	cat    *xrt.Catalog
	log    zerolog.Logger
	router chi.Router
	routes []string
}

// New builds the router for cat.
func New(cat *xrt.Catalog, log zerolog.Logger) *Server {
	s := &Server{cat: cat, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))

	s.handle(r, "/healthz", s.health)
	s.handle(r, "/header", s.header)
	s.handle(r, "/resolve", s.resolve)
	s.handle(r, "/channels", s.channels)
	s.handle(r, "/channels/{name}", s.channel)
	s.handle(r, "/channels/{name}/fits", s.fits)
	s.handle(r, "/channels/{name}/{element}", s.element)
	s.handle(r, "/list-of-routes", s.listRoutes)
	s.router = r
	return s
}

func (s *Server) handle(r chi.Router, pattern string, h http.HandlerFunc) {
	r.Get(pattern, h)
	s.routes = append(s.routes, pattern)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Routes lists the route patterns.
func (s *Server) Routes() []string {
	out := append([]string(nil), s.routes...)
	sort.Strings(out)
	return out
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"channels":    len(s.cat.Channels()),
		"fingerprint": fmt.Sprintf("%08x", s.cat.Fingerprint()),
	})
}

func (s *Server) header(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Header())
}

// Resolution is the reply of /resolve.
type Resolution struct {
	Input string `json:"input"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("name")
	ch, err := s.cat.Open(input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	name, err := ch.Name()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Resolution{Input: input, Name: name, Index: ch.Index()})
}

func (s *Server) channels(w http.ResponseWriter, r *http.Request) {
	refs, err := export.List(s.cat)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

func (s *Server) channel(w http.ResponseWriter, r *http.Request) {
	ch, _, ok := s.open(w, r)
	if !ok {
		return
	}
	summary, err := export.Summarize(ch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) fits(w http.ResponseWriter, r *http.Request) {
	ch, name, ok := s.open(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/fits")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(name, export.FormatFITS)))
	if err := export.WriteFITS(w, ch, s.cat.Header(), s.cat.Fingerprint()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("channel", name).Msg("writing FITS")
	}
}

// Response is a wavelength-indexed response curve of one element. The unit
// query parameter converts the wavelength axis to another length unit.
type Response struct {
	Channel    string      `json:"channel"`
	Element    string      `json:"element"`
	Wavelength units.Array `json:"wavelength"`
	Response   units.Array `json:"response"`
}

func (s *Server) element(w http.ResponseWriter, r *http.Request) {
	ch, channel, ok := s.open(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "element")
	resp := Response{Channel: channel, Element: name}
	switch name {
	case "channel":
		resp.Wavelength, resp.Response = ch.Wavelength(), ch.Transmission()
	case "entrance":
		f := ch.EntranceFilter()
		resp.Wavelength, resp.Response = f.Wavelength(), f.Transmission()
	case "filter1":
		f := ch.Filter1()
		resp.Wavelength, resp.Response = f.Wavelength(), f.Transmission()
	case "filter2":
		f := ch.Filter2()
		resp.Wavelength, resp.Response = f.Wavelength(), f.Transmission()
	case "mirror1":
		m := ch.Mirror1()
		resp.Wavelength, resp.Response = m.Wavelength(), m.Reflection()
	case "mirror2":
		m := ch.Mirror2()
		resp.Wavelength, resp.Response = m.Wavelength(), m.Reflection()
	case "ccd":
		c := ch.CCD()
		resp.Wavelength, resp.Response = c.Wavelength(), c.QuantumEfficiency()
	default:
		writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("unknown element %q", name)})
		return
	}
	if symbol := r.URL.Query().Get("unit"); symbol != "" {
		u, err := units.Parse(symbol)
		if err == nil {
			resp.Wavelength, err = resp.Wavelength.Convert(u)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Routes())
}

// open resolves the {name} path parameter and returns the channel with its
// canonical name.
func (s *Server) open(w http.ResponseWriter, r *http.Request) (*xrt.Channel, string, bool) {
	ch, err := s.cat.Open(chi.URLParam(r, "name"))
	if err == nil {
		var name string
		if name, err = ch.Name(); err == nil {
			return ch, name, true
		}
	}
	writeError(w, r, err)
	return nil, "", false
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, xrt.ErrStoredName):
		// bad calibration data, not a bad request
	case errors.Is(err, xrt.ErrInvalidFilterName), errors.Is(err, xrt.ErrTypeMismatch),
		errors.Is(err, units.ErrUnknownUnit), errors.Is(err, units.ErrIncompatible):
		status = http.StatusBadRequest
	case errors.Is(err, xrt.ErrUnknownChannel):
		status = http.StatusNotFound
	}
	hlog.FromRequest(r).Debug().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
