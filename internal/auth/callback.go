package auth

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
)

// result is what the callback hands back to the waiting Login call.
type result struct {
	token *oauth2.Token
	err   error
}

// callbackFlow serves the loopback redirect for one sign-in attempt.
type callbackFlow struct {
	exchanger Exchanger
	state     string
	results   chan result

	// landed is closed once the landing page is served after a result.
	delivered atomic.Bool
	landed    chan struct{}
	landOnce  sync.Once
}

func newCallbackFlow(exchanger Exchanger, state string) *callbackFlow {
	return &callbackFlow{
		exchanger: exchanger,
		state:     state,
		results:   make(chan result, 1),
		landed:    make(chan struct{}),
	}
}

func (f *callbackFlow) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(CallbackPath, f.handleCallback)
	r.Get("/", f.handleIndex)
	return r
}

// handleCallback finishes the flow. Provider errors and failed exchanges are
// echoed to the landing page through the error query parameter.
func (f *callbackFlow) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		msg := q.Get("error_description")
		if msg == "" {
			msg = providerErr
		}
		f.deliver(result{err: &Error{Message: msg}})
		redirectError(w, r, msg)
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if q.Get("state") != f.state {
		msg := "sign-in state mismatch, please try again"
		f.deliver(result{err: &Error{Message: msg}})
		redirectError(w, r, msg)
		return
	}

	token, err := f.exchanger.Exchange(r.Context(), code)
	if err != nil {
		authErr := &Error{Message: "could not complete sign in", Err: err}
		f.deliver(result{err: authErr})
		redirectError(w, r, authErr.Error())
		return
	}

	f.deliver(result{token: token})
	http.Redirect(w, r, "/", http.StatusFound)
}

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>studydeck</title></head>
<body style="font-family: sans-serif; margin: 4em auto; max-width: 32em">
{{if .}}<h2>Sign in failed</h2><p>{{.}}</p>{{else}}<h2>Signed in</h2><p>You can close this tab and return to the terminal.</p>{{end}}
</body></html>`))

func (f *callbackFlow) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexPage.Execute(w, r.URL.Query().Get("error"))
	if f.delivered.Load() {
		f.landOnce.Do(func() { close(f.landed) })
	}
}

func (f *callbackFlow) deliver(res result) {
	f.delivered.Store(true)
	select {
	case f.results <- res:
	default:
	}
}

func (f *callbackFlow) wait(ctx context.Context) (*oauth2.Token, error) {
	select {
	case res := <-f.results:
		return res.token, res.err
	case <-ctx.Done():
		return nil, &Error{Message: "sign in was not completed", Err: ctx.Err()}
	}
}

// waitLanding blocks until the browser has loaded the landing page or timeout
// passes.
func (f *callbackFlow) waitLanding(timeout time.Duration) bool {
	select {
	case <-f.landed:
		return true
	case <-time.After(timeout):
		return false
	}
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, fmt.Sprintf("/?error=%s", url.QueryEscape(msg)), http.StatusFound)
}
