// Package mcpserver exposes an edit page as MCP tools so language models can
// read a record, change fields and save it over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/renderers/jsonview"
)

// Server wraps the MCP server around one edit page.
type Server struct {
	mcp  *server.MCPServer
	page *editpage.Page
	json *jsonview.Renderer
	log  *slog.Logger

	mu      sync.Mutex
	navPage string
	navPath string
	lastErr error
}

// New creates the MCP server. Page options are applied before the server
// installs itself as the page's navigator and error dialog.
func New(loader editpage.Loader, logger *slog.Logger, pageOptions ...editpage.Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{json: jsonview.New(jsonview.WithIndent("  ")), log: logger}

	options := append([]editpage.Option{editpage.WithLogger(logger)}, pageOptions...)
	options = append(options,
		editpage.WithKeyBus(editpage.NewKeyBus()),
		editpage.WithNavigator(editpage.NavigatorFunc(s.navigate)),
		editpage.WithErrorDialog(editpage.ErrorDialogFunc(s.showError)),
	)
	s.page = editpage.New(loader, options...)

	s.mcp = server.NewMCPServer(
		"recordedit",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("get_record",
		mcp.WithDescription("Open a record for editing and return its fields. "+
			"Unsaved edits are kept while the same record stays open. Opening another record "+
			"while edits are pending is refused unless discard is true."),
		mcp.WithString("record", mcp.Required(), mcp.Description("Admin URL path of the record, e.g. root:blog:first-post or root:blog+de")),
		mcp.WithString("fields", mcp.Description("Optional comma separated field names to return")),
		mcp.WithBoolean("discard", mcp.Description("Drop unsaved changes of the open record when opening another one")),
	), s.getRecord)

	s.mcp.AddTool(mcp.NewTool("set_field",
		mcp.WithDescription("Change a field of the open record. Values use the form encoding: "+
			"checkboxes take one value per ticked choice, a checkbox takes yes or no."),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field name")),
		mcp.WithArray("values", mcp.Required(), mcp.Description("New value(s)"), mcp.WithStringItems()),
	), s.setField)

	s.mcp.AddTool(mcp.NewTool("save_record",
		mcp.WithDescription("Validate and save the open record."),
	), s.saveRecord)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) navigate(page, urlPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navPage, s.navPath = page, urlPath
}

func (s *Server) showError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Server) takeNavigation() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, path := s.navPage, s.navPath
	s.navPage, s.navPath = "", ""
	return page, path
}

func (s *Server) getRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := recordpath.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if current := s.page.State(); !current.Ref.SameRecord(ref) {
		if prompt, pending := s.page.LeaveGuard(); pending && !req.GetBool("discard", false) {
			return mcp.NewToolResultError(fmt.Sprintf("%s\n%s has unsaved changes; call save_record, or get_record again with discard=true to drop them",
				prompt, current.Ref.URLPath())), nil
		}
	}
	if err := s.page.Navigate(ctx, ref); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view, ok := s.page.View()
	if !ok {
		return mcp.NewToolResultError(editpage.ErrNotLoaded.Error()), nil
	}
	if names := render.ParseSubsetNames(req.GetString("fields", "")); len(names) > 0 {
		render.ApplySubset(&view, render.FieldSubset{Names: names})
	}
	out, err := s.json.Render(ctx, view, render.RenderOptions{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) setField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	values, err := req.RequireStringSlice("values")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := s.page.SetFieldText(name, values)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := s.page.State()
	out, _ := json.Marshal(map[string]any{
		"field":           name,
		"changed":         changed,
		"pending_changes": state.PendingChanges,
	})
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveRecord(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.page.Validate(); err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}
	if err := s.page.Save(ctx); err != nil {
		if errors.Is(err, editpage.ErrNotLoaded) || errors.Is(err, editpage.ErrSaveInProgress) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.mu.Lock()
		shown := s.lastErr
		s.mu.Unlock()
		return mcp.NewToolResultError("save failed: " + describeError(shown)), nil
	}
	page, urlPath := s.takeNavigation()
	if page == "" {
		return mcp.NewToolResultText("saved"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved; next page: %s %s", page, urlPath)), nil
}

// describeError lists validation failures one per line, or returns the
// backend's message.
func describeError(err error) string {
	if err == nil {
		return "unknown error"
	}
	var verr *editpage.ValidationError
	if errors.As(err, &verr) {
		byField := verr.ByField()
		names := make([]string, 0, len(byField))
		for name := range byField {
			names = append(names, name)
		}
		sort.Strings(names)
		lines := make([]string, 0, len(names)+1)
		lines = append(lines, "invalid form:")
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("- %s: %s", name, byField[name]))
		}
		return strings.Join(lines, "\n")
	}
	mapping := render.MapError(editpage.View{}, err)
	return strings.Join(mapping.Form, "; ")
}
