package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/render"
)

// showEdit handles GET {admin}/edit/{record}. The Accept header may ask for
// the JSON view instead of the HTML page.
func (s *Server) showEdit(w http.ResponseWriter, r *http.Request) {
	page, ok := s.mountPage(w, r)
	if !ok {
		return
	}
	defer page.Unmount()
	s.renderPage(w, r, page, http.StatusOK, nil)
}

// submitEdit handles POST {admin}/edit/{record}: submitted field inputs are
// applied as user edits, then the form is validated and saved.
func (s *Server) submitEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	page, ok := s.mountPage(w, r)
	if !ok {
		return
	}
	defer page.Unmount()

	values := render.FieldValues(r.PostForm)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := page.SetFieldText(name, values[name]); err != nil {
			if errors.Is(err, editpage.ErrUnknownField) || errors.Is(err, editpage.ErrFieldDisabled) {
				s.logger.Debug("ignoring submitted field", slog.String("field", name), slog.String("error", err.Error()))
				continue
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := page.Validate(); err != nil {
		s.renderPage(w, r, page, http.StatusUnprocessableEntity, err)
		return
	}

	if r.PostForm.Get(render.ActionInput) == render.ActionAccelerator {
		page.PressSaveAccelerator(r.Context())
	} else if err := page.Save(r.Context()); err != nil {
		s.logger.Debug("save from form failed", slog.String("error", err.Error()))
	}

	if target, urlPath, ok := page.navigation(); ok {
		http.Redirect(w, r, s.pageURL(target, urlPath), http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, page, http.StatusBadGateway, page.lastError())
}

// deleteRecord handles POST {admin}/delete/{record} by sending the browser to
// the delete confirmation page.
func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	page, ok := s.mountPage(w, r)
	if !ok {
		return
	}
	defer page.Unmount()

	if err := page.DeleteRecord(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	target, urlPath, _ := page.navigation()
	http.Redirect(w, r, s.pageURL(target, urlPath), http.StatusSeeOther)
}

// mountPage loads the record named in the URL and writes an error response
// when that fails.
func (s *Server) mountPage(w http.ResponseWriter, r *http.Request) (*requestPage, bool) {
	ref, err := recordRef(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	page := s.newPage(r)
	if err := page.Mount(r.Context(), ref); err != nil {
		page.Unmount()
		http.Error(w, loadMessage(err), loadStatus(err))
		return nil, false
	}
	return page, true
}

// renderPage renders the current view with the messages of err, using the
// renderer the Accept header asks for.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, page *requestPage, status int, err error) {
	view, ok := page.View()
	if !ok {
		http.Error(w, editpage.ErrNotLoaded.Error(), http.StatusConflict)
		return
	}

	locale := page.Locale()
	opts := render.RenderOptions{
		Locale:       locale,
		Translator:   s.translator,
		Action:       s.pageURL("edit", view.URLPath),
		DeleteAction: s.pageURL("delete", view.URLPath),
		CancelURL:    s.pageURL("preview", view.URLPath),
		Hidden:       hiddenState(r),
	}
	if variant := requestValue(r, "variant", variantInput); variant != "" {
		if themeCfg, themeErr := s.themes.Resolve(s.cfg.Theme.Name, variant); themeErr == nil {
			opts.Theme = themeCfg
		}
	}
	if err != nil {
		mapping := render.MapError(view, err)
		opts.Errors = mapping.Fields
		opts.FormErrors = mapping.Form
		if errors.Is(err, editpage.ErrInvalidForm) {
			opts.FormErrors = append([]string{i18n.T(s.translator, locale, i18n.KeyInvalidForm)}, opts.FormErrors...)
		}
		view.Error = ""
	}

	renderer, negErr := s.renderers.Negotiate(r.Header.Get("Accept"))
	if negErr != nil {
		http.Error(w, negErr.Error(), http.StatusInternalServerError)
		return
	}
	body, renderErr := renderer.Render(r.Context(), view, opts)
	if renderErr != nil {
		s.logger.Error("render edit page", slog.String("renderer", renderer.Name()), slog.String("error", renderErr.Error()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
