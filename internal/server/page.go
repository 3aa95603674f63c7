package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/render"
)

// requestPage is an edit page living for one request. It records where the
// page navigated and what it reported instead of acting on it.
type requestPage struct {
	*editpage.Page

	mu      sync.Mutex
	navPage string
	navPath string
	errs    []error
}

func (p *requestPage) TransitionToAdminPage(page, urlPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navPage, p.navPath = page, urlPath
}

func (p *requestPage) ShowError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, err)
}

func (p *requestPage) navigation() (page, urlPath string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navPage, p.navPath, p.navPage != ""
}

func (p *requestPage) lastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs[len(p.errs)-1]
}

// newPage builds a page with its own key bus so concurrent requests never
// see each other's accelerator events.
func (s *Server) newPage(r *http.Request) *requestPage {
	rp := &requestPage{}
	rp.Page = editpage.New(s.loader,
		editpage.WithRegistry(s.widgets),
		editpage.WithTranslator(s.translator),
		editpage.WithLocale(s.locale(r)),
		editpage.WithPlatform(s.platform),
		editpage.WithKeyBus(editpage.NewKeyBus()),
		editpage.WithNavigator(rp),
		editpage.WithErrorDialog(rp),
		editpage.WithLogger(s.logger),
	)
	return rp
}

// The edit form posts to a URL without query parameters, so the chrome
// language and theme variant travel as hidden inputs.
const (
	langInput    = "_lang"
	variantInput = "_variant"
)

// requestValue reads a query parameter, falling back to the hidden input of a
// parsed form submission.
func requestValue(r *http.Request, query, input string) string {
	if value := strings.TrimSpace(r.URL.Query().Get(query)); value != "" {
		return value
	}
	if r.PostForm == nil {
		return ""
	}
	return strings.TrimSpace(r.PostForm.Get(input))
}

func (s *Server) locale(r *http.Request) string {
	if lang := requestValue(r, "lang", langInput); lang != "" {
		return lang
	}
	return s.cfg.Admin.Language
}

// hiddenState returns the hidden inputs that carry request state across a
// form submission.
func hiddenState(r *http.Request) map[string]string {
	var fields []render.HiddenField
	if lang := requestValue(r, "lang", langInput); lang != "" {
		fields = append(fields, render.Hidden(langInput, lang))
	}
	if variant := requestValue(r, "variant", variantInput); variant != "" {
		fields = append(fields, render.Hidden(variantInput, variant))
	}
	return render.MergeHiddenFields(nil, fields...)
}

func recordRef(r *http.Request) (recordpath.Ref, error) {
	return recordpath.Parse(chi.URLParam(r, "record"))
}

// loadStatus maps a load failure to a response status.
func loadStatus(err error) int {
	var reqErr *client.RequestError
	switch {
	case errors.Is(err, recordpath.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.As(err, &reqErr) && reqErr.NotFound():
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func loadMessage(err error) string {
	var reqErr *client.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return err.Error()
}
