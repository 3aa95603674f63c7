package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// saveRequest is the body of PUT /api/records/{record}. A null value clears
// the field.
type saveRequest struct {
	Fields map[string]*string `json:"fields"`
}

type saveResponse struct {
	Saved   bool     `json:"saved"`
	URLPath string   `json:"url_path"`
	Changed []string `json:"changed,omitempty"`
}

func (s *Server) openAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.spec)
}

// getRecord handles GET /api/records/{record}.
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	page, ok := s.mountAPIPage(w, r)
	if !ok {
		return
	}
	defer page.Unmount()

	view, _ := page.View()
	if names := render.ParseSubsetNames(r.URL.Query().Get("fields")); len(names) > 0 {
		render.ApplySubset(&view, render.FieldSubset{Names: names})
	}
	s.writeView(w, r, http.StatusOK, view, render.RenderOptions{Locale: page.Locale(), Translator: s.translator})
}

// putRecord handles PUT /api/records/{record}: values are applied as user
// edits, validated and saved.
func (s *Server) putRecord(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	page, ok := s.mountAPIPage(w, r)
	if !ok {
		return
	}
	defer page.Unmount()

	changed, err := applyFields(page.Page, req.Fields)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := page.Validate(); err != nil {
		view, _ := page.View()
		mapping := render.MapError(view, err)
		s.writeView(w, r, http.StatusUnprocessableEntity, view, render.RenderOptions{
			Locale:     page.Locale(),
			Translator: s.translator,
			Errors:     mapping.Fields,
			FormErrors: mapping.Form,
		})
		return
	}

	if err := page.Save(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody(loadMessage(err)))
		return
	}
	_, urlPath, _ := page.navigation()
	writeJSON(w, http.StatusOK, saveResponse{Saved: true, URLPath: urlPath, Changed: changed})
}

// applyFields stores values in name order and returns the fields whose value
// changed.
func applyFields(page *editpage.Page, fields map[string]*string) ([]string, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	state := page.State()
	var changed []string
	for _, name := range names {
		field, ok := state.Model.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", editpage.ErrUnknownField, name)
		}
		var value any
		if v := fields[name]; v != nil {
			value = widgets.Deserialize(page.Registry().WithFallback(field.Type), *v, field.Type)
		}
		before, _ := state.Value(name)
		if err := page.SetFieldValue(field, value, false); err != nil {
			return nil, err
		}
		after, _ := page.State().Value(name)
		if widgets.Text(before) != widgets.Text(after) {
			changed = append(changed, name)
		}
	}
	return changed, nil
}

func (s *Server) mountAPIPage(w http.ResponseWriter, r *http.Request) (*requestPage, bool) {
	ref, err := recordRef(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return nil, false
	}
	page := s.newPage(r)
	if err := page.Mount(r.Context(), ref); err != nil {
		page.Unmount()
		writeJSON(w, loadStatus(err), errorBody(loadMessage(err)))
		return nil, false
	}
	return page, true
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, status int, view editpage.View, opts render.RenderOptions) {
	body, err := s.json.Render(r.Context(), view, opts)
	if err != nil {
		s.logger.Error("render json view", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("render failed"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
