// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/integration/excel"
	"github.com/abelzeko/water-samples/internal/session"
	"github.com/abelzeko/water-samples/internal/usecases"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Messages shown on the login and form pages
const (
	MsgRejected = "❌ Usuario o contraseña incorrectos"
	MsgPending  = "Por favor, introduce tu usuario y contraseña"
	MsgSaved    = "✅ Datos guardados. Código asignado: "
)

//go:embed templates/*.html
var templateFS embed.FS

type ctxKey struct{}

// WebServer serves the sample form to browsers
type WebServer struct {
	samples    *usecases.SampleUseCase
	auth       *usecases.AuthUseCase
	sessions   *session.Manager
	cookieName string
	tmpl       *template.Template
	now        func() time.Time
}

// NewWebServer creates the web handler set
func NewWebServer(samples *usecases.SampleUseCase, auth *usecases.AuthUseCase, sessions *session.Manager, cookieName string) (*WebServer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if cookieName == "" {
		cookieName = "water_samples_session"
	}
	return &WebServer{
		samples:    samples,
		auth:       auth,
		sessions:   sessions,
		cookieName: cookieName,
		tmpl:       tmpl,
		now:        time.Now,
	}, nil
}

// Routes builds the router
func (s *WebServer) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleIndex)
		r.Post("/samples", s.handleSubmit)
		r.Get("/export", s.handleExport)
	})

	return r
}

// requireSession redirects to the login page unless the cookie names a live session
func (s *WebServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.currentSession(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func (s *WebServer) currentSession(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(s.cookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ctxKey{}).(*session.Session)
	return sess
}

type loginPage struct {
	Username string
	Error    string
	Warning  string
}

func (s *WebServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentSession(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "login", loginPage{})
}

func (s *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	identity := s.auth.Check(r.PostFormValue("username"), r.PostFormValue("password"))
	switch identity.Status {
	case entities.AuthAuthenticated:
		sess := s.sessions.Create(identity)
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    sess.ID,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case entities.AuthRejected:
		s.render(w, http.StatusUnauthorized, "login", loginPage{Username: identity.Username, Error: MsgRejected})
	default:
		s.render(w, http.StatusOK, "login", loginPage{Username: identity.Username, Warning: MsgPending})
	}
}

func (s *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cookieName); err == nil {
		s.sessions.Destroy(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type analysis struct {
	Name  string
	Label string
}

var analyses = []analysis{
	{Name: "fisico_quimico", Label: "¿Físico Químico?"},
	{Name: "microbiologico_1", Label: "¿Microbiológico 1?"},
	{Name: "microbiologico_2", Label: "¿Microbiológico 2?"},
}

type indexPage struct {
	Identity      entities.Identity
	Success       string
	Error         string
	Today         string
	Now           string
	Devices       []entities.Device
	WaterTypes    []entities.WaterType
	SampleTypes   []entities.SampleType
	Analyses      []analysis
	Views         entities.ReportViews
	PHChart       template.HTML
	ChlorineChart template.HTML
	ExportName    string
}

func (s *WebServer) indexPage(sess *session.Session) indexPage {
	now := s.now()
	return indexPage{
		Identity:    sess.Identity,
		Today:       now.Format(entities.DateLayout),
		Now:         now.Format(entities.TimeLayout),
		Devices:     entities.Devices,
		WaterTypes:  entities.WaterTypes,
		SampleTypes: entities.SampleTypes,
		Analyses:    analyses,
		Views:       sess.Views,
		// chart markup is produced by our own renderer with escaped text
		PHChart:       template.HTML(sess.Views.PHChart),
		ChlorineChart: template.HTML(sess.Views.ChlorineChart),
		ExportName:    excel.FileName,
	}
}

func (s *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	s.render(w, http.StatusOK, "index", s.indexPage(sess))
}

func (s *WebServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := usecases.SampleForm{
		Date:             r.PostFormValue("fecha"),
		Time:             r.PostFormValue("hora"),
		Device:           r.PostFormValue("dispositivo"),
		PhysicoChemical:  r.PostFormValue("fisico_quimico"),
		Microbiological1: r.PostFormValue("microbiologico_1"),
		Microbiological2: r.PostFormValue("microbiologico_2"),
		WaterType:        r.PostFormValue("tipo_agua"),
		PH:               r.PostFormValue("ph"),
		Chlorine:         r.PostFormValue("cloro"),
		Temperature:      r.PostFormValue("temperatura"),
		Observations:     r.PostFormValue("observaciones"),
		SampleType:       r.PostFormValue("tipo_muestra"),
		Sampler:          r.PostFormValue("quien_muestrea"),
	}

	sess.Lock()
	defer sess.Unlock()

	rec, err := s.samples.Submit(r.Context(), sess, form)
	if err != nil {
		page := s.indexPage(sess)
		page.Error = err.Error()
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, usecases.ErrNotAuthenticated):
			status = http.StatusUnauthorized
		case errors.Is(err, usecases.ErrInvalidForm), errors.Is(err, usecases.ErrUnknownSampleType):
			status = http.StatusBadRequest
		}
		log.Printf("Rejected sample from user %s: %v", sess.Identity.Username, err)
		s.render(w, status, "index", page)
		return
	}

	page := s.indexPage(sess)
	page.Success = MsgSaved + rec.Code
	s.render(w, http.StatusOK, "index", page)
}

func (s *WebServer) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	if sess.Register.Len() == 0 {
		http.Error(w, "no samples registered", http.StatusNotFound)
		return
	}

	data, err := s.samples.Export(sess)
	if err != nil {
		log.Printf("Error exporting samples: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+excel.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing export: %v", err)
	}
}

func (s *WebServer) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
	}
}
