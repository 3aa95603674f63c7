package testsupport

import (
	"testing"

	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// LoadedState returns the state of a page that finished loading the named
// fixture.
func LoadedState(t *testing.T, name string) editpage.State {
	t.Helper()

	raw := MustLoadRawRecord(t, name)
	ref := recordpath.New(raw.RecordInfo.Path, raw.RecordInfo.Alt)
	state := editpage.Reduce(editpage.State{}, editpage.LoadStarted{Ref: ref, Generation: 1})
	return editpage.Reduce(state, editpage.Loaded{
		Generation: 1,
		Record:     editpage.BuildRecordData(raw.DataModel, raw.Data, widgets.NewRegistry()),
		Model:      raw.DataModel,
		Info:       raw.RecordInfo,
	})
}

// MustView builds the view of a loaded fixture in the given locale using the
// default catalog and widget registry.
func MustView(t *testing.T, name, locale string, fieldErrors map[string]string) editpage.View {
	t.Helper()

	catalog, err := i18n.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	view, ok := editpage.BuildView(LoadedState(t, name), editpage.ViewOptions{
		Locale:      locale,
		Translator:  catalog,
		Registry:    widgets.NewRegistry(),
		FieldErrors: fieldErrors,
	})
	if !ok {
		t.Fatalf("fixture %q did not load", name)
	}
	return view
}
