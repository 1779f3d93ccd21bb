// components/signup/signup.go
//
// Signup Component – the profile form page and its JSON twin.
//
// Routes
// ------
//
//	GET  /                 – blank form, two empty technology rows
//	POST /                 – row operation (op=add_tech | op=remove_tech.<i>)
//	                         or a full submission
//	GET  /api/csrf         – {"token": "..."} for API clients
//	POST /api/submissions  – same pipeline, JSON answers
//
// Status codes
// ------------
//
//	200 – accepted (page shows the normalized record) or row operation
//	400 – body could not be parsed
//	403 – CSRF token missing, forged, or expired
//	422 – field validation failed; one message per field path
//	502 – storage backend refused the avatar
//	500 – anything else
package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/formhook/internal/component"
	"github.com/yanizio/formhook/internal/form"
	"github.com/yanizio/formhook/internal/head"
	"github.com/yanizio/formhook/internal/logger"
	"github.com/yanizio/formhook/internal/requestinfo"
	"github.com/yanizio/formhook/internal/storage"
)

// MaxBody caps the whole request body.  It is well above the avatar limit so
// a moderately oversized avatar still reaches the size rule.  Bodies past
// MaxBody are reported as the same avatar size error.
const MaxBody = 32 << 20

// CSRFHeader carries the token on API requests.
const CSRFHeader = "X-CSRF-Token"

const (
	msgBadToken     = "Your session expired.  Please submit the form again."
	msgUploadFailed = "We could not store your avatar.  Please try again."
	msgInternal     = "Something went wrong.  Please try again."
)

// compile-time assertion
var _ component.Component = (*Comp)(nil)

// Comp implements component.Component.
type Comp struct {
	sub       *form.Submitter
	csrf      *form.CSRF
	maxMemory int64
	maxBody   int64
}

func (c *Comp) Name() string { return "signup" }

func (c *Comp) Init(d component.Deps) error {
	if d.Submitter == nil || d.CSRF == nil {
		return errors.New("signup: submitter and csrf are required")
	}
	c.sub, c.csrf, c.maxMemory = d.Submitter, d.CSRF, d.MaxMemory
	c.maxBody = MaxBody
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.getPage)
	r.Post("/", c.postPage)
	r.Route("/api", func(api chi.Router) {
		api.Get("/csrf", c.getToken)
		api.Post("/submissions", c.postAPI)
	})
	return r
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}

/*──────────────────────────── HTML page ────────────────────────────────────*/

var page = template.Must(template.New("signup").Parse(`<!doctype html>
<html lang="en">
<head>
{{.Head}}</head>
<body>
  <h1>Profile</h1>
  {{.Form}}
  {{if .Echo}}<h2>Submitted</h2>
  <pre class="echo">{{.Echo}}</pre>{{end}}
</body>
</html>`))

type pageData struct {
	Head template.HTML
	Form template.HTML
	Echo string
}

func (c *Comp) getPage(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, form.View{Values: form.NewValues()}, "")
}

func (c *Comp) postPage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxBody)
	ctx := withRequestLogger(r)
	log := logger.FromContext(ctx)

	sf, err := form.ParseRequest(r, c.maxMemory)
	if err != nil {
		log.Infow("signup parse failed", "err", err)
		if bodyTooLarge(err) {
			// The truncated body cannot be recovered; only the avatar message is shown.
			c.render(w, r, http.StatusUnprocessableEntity,
				form.View{Values: form.NewValues(), Errors: form.AvatarTooLarge().Errors}, "")
			return
		}
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Row edits never validate and never touch storage.
	vals := form.ValuesFrom(sf)
	if vals.ApplyOp(r.PostForm.Get("op")) {
		c.render(w, r, http.StatusOK, form.View{Values: vals}, "")
		return
	}

	if !c.csrf.Verify(r.PostForm.Get("csrf_token")) {
		log.Warnw("signup csrf rejected")
		c.render(w, r, http.StatusForbidden, form.View{Values: vals, FormError: msgBadToken}, "")
		return
	}

	vf, err := c.sub.Submit(ctx, sf)
	switch {
	case err == nil:
		echo, _ := json.MarshalIndent(vf, "", "  ")
		c.render(w, r, http.StatusOK, form.View{Values: form.NewValues()}, string(echo))
	case form.IsValidationError(err):
		c.render(w, r, http.StatusUnprocessableEntity, form.View{Values: vals, Errors: form.ErrorsOf(err)}, "")
	case errors.Is(err, storage.ErrUploadFailed):
		c.render(w, r, http.StatusBadGateway, form.View{Values: vals, FormError: msgUploadFailed}, "")
	default:
		c.render(w, r, http.StatusInternalServerError, form.View{Values: vals, FormError: msgInternal}, "")
	}
}

// render fills in the action and a fresh token, then writes the page.
func (c *Comp) render(w http.ResponseWriter, r *http.Request, status int, v form.View, echo string) {
	tok, err := c.csrf.Generate()
	if err != nil {
		logger.FromContext(r.Context()).Errorw("csrf generate failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	v.Action = "/"
	v.CSRFToken = tok

	hb := head.New()
	hb.SetTitle("Profile")
	hb.Link(`<link rel="icon" href="data:,">`)

	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{Head: hb.HTML(), Form: form.RenderForm(v), Echo: echo}); err != nil {
		logger.FromContext(r.Context()).Errorw("signup render failed", "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

/*──────────────────────────── JSON API ─────────────────────────────────────*/

func (c *Comp) getToken(w http.ResponseWriter, r *http.Request) {
	tok, err := c.csrf.Generate()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msgInternal})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (c *Comp) postAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxBody)
	ctx := withRequestLogger(r)

	if !c.csrf.Verify(r.Header.Get(CSRFHeader)) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": msgBadToken})
		return
	}

	sf, err := form.ParseRequest(r, c.maxMemory)
	if err != nil {
		if bodyTooLarge(err) {
			writeJSON(w, http.StatusUnprocessableEntity,
				map[string]any{"errors": form.AvatarTooLarge().Errors.Messages()})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	vf, err := c.sub.Submit(ctx, sf)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"data": vf})
	case form.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": form.ErrorsOf(err).Messages()})
	case errors.Is(err, storage.ErrUploadFailed):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": msgUploadFailed})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msgInternal})
	}
}

// bodyTooLarge reports whether err came from the MaxBytesReader.  Avatars are
// the only part that can reach the limit.
func bodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withRequestLogger extends the context logger with the request-info fields
// so submission log lines carry IP, country, and browser.
func withRequestLogger(r *http.Request) context.Context {
	ctx := r.Context()
	fields := requestinfo.FromContext(ctx).LogFields()
	if len(fields) == 0 {
		return ctx
	}
	return logger.WithContext(ctx, logger.FromContext(ctx).With(fields...))
}
