package editpage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
)

func minimalRecord() datamodel.RawRecord {
	return datamodel.RawRecord{
		Data: map[string]any{"title": "Hi"},
		DataModel: datamodel.DataModel{
			ID: "page",
			Fields: []datamodel.Field{
				{Name: "_id", Type: datamodel.FieldType{Name: "string"}},
				{Name: "title", Type: datamodel.FieldType{Name: "string"}},
			},
		},
		RecordInfo: datamodel.RecordInfo{Path: "/about", Alt: recordpath.PrimaryAlt, Label: "About"},
	}
}

func TestPage_LoadExample(t *testing.T) {
	loader := newFakeLoader(minimalRecord())
	rec := &recorder{}
	page := newPage(loader, rec)

	if _, ok := page.View(); ok {
		t.Fatalf("expected no view before load")
	}
	if err := page.Mount(context.Background(), recordpath.New("/about", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}

	state := page.State()
	if state.Status != editpage.StatusReady {
		t.Fatalf("expected ready, got %s", state.Status)
	}
	if diff := cmp.Diff(map[string]any{"title": "Hi"}, state.Record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	view, ok := page.View()
	if !ok {
		t.Fatalf("expected view after load")
	}
	var names []string
	for _, field := range view.Fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"title"}, names); diff != "" {
		t.Fatalf("rendered fields mismatch (-want +got):\n%s", diff)
	}
	if view.Title != "Edit “About”" {
		t.Fatalf("unexpected title %q", view.Title)
	}
}

func TestPage_SaveExample(t *testing.T) {
	loader := newFakeLoader(minimalRecord())
	rec := &recorder{}
	page := newPage(loader, rec)

	if err := page.Mount(context.Background(), recordpath.New("/about", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := page.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := []client.SavePayload{{
		Data: map[string]any{"title": "Hi"},
		Path: "/about",
		Alt:  recordpath.PrimaryAlt,
	}}
	if diff := cmp.Diff(want, loader.puts); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]navCall{{Page: editpage.PagePreview, Path: "root:about"}}, rec.navs); diff != "" {
		t.Fatalf("navigation mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_LoadDeserializesPresentFields(t *testing.T) {
	loader := newFakeLoader(blogRecord("de"))
	page := newPage(loader, &recorder{})

	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "de")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	want := map[string]any{
		"_id":   "first-post",
		"title": "Hi",
		"tags":  []string{"go", "web"},
	}
	if diff := cmp.Diff(want, page.State().Record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_SetFieldValuePendingFlag(t *testing.T) {
	loader := newFakeLoader(blogRecord(""))
	page := newPage(loader, &recorder{})
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	title, _ := page.State().Model.Field("title")

	if err := page.SetFieldValue(title, "UI", true); err != nil {
		t.Fatalf("ui change: %v", err)
	}
	if page.State().PendingChanges {
		t.Fatalf("ui change must not set pending flag")
	}
	if _, blocked := page.LeaveGuard(); blocked {
		t.Fatalf("leave guard should be inactive")
	}

	if err := page.SetFieldValue(title, nil, false); err != nil {
		t.Fatalf("user change: %v", err)
	}
	state := page.State()
	if !state.PendingChanges {
		t.Fatalf("user change must set pending flag")
	}
	if got, _ := state.Value("title"); got != "" {
		t.Fatalf("nil value should be stored as empty string, got %#v", got)
	}
	prompt, blocked := page.LeaveGuard()
	if !blocked || prompt == "" {
		t.Fatalf("leave guard should block with a prompt, got %q %v", prompt, blocked)
	}

	if err := page.SetFieldValue(title, "Again", true); err != nil {
		t.Fatalf("ui change: %v", err)
	}
	if !page.State().PendingChanges {
		t.Fatalf("ui change must leave the pending flag set")
	}
}

func TestPage_SetFieldValueRejections(t *testing.T) {
	loader := newFakeLoader(blogRecord("de"))
	page := newPage(loader, &recorder{})

	if err := page.SetFieldValue(datamodel.Field{Name: "title"}, "x", false); !errors.Is(err, editpage.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "de")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := page.SetFieldValue(datamodel.Field{Name: "_id"}, "x", false); !errors.Is(err, editpage.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for illegal field, got %v", err)
	}
	if err := page.SetFieldValue(datamodel.Field{Name: "nope"}, "x", false); !errors.Is(err, editpage.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := page.SetFieldValue(datamodel.Field{Name: "pub_date"}, "2024-01-01", false); !errors.Is(err, editpage.ErrFieldDisabled) {
		t.Fatalf("expected ErrFieldDisabled on non-primary alt, got %v", err)
	}
}

func TestPage_SavePayloadSkipsIllegalAndNullsAbsent(t *testing.T) {
	loader := newFakeLoader(blogRecord(""))
	rec := &recorder{}
	page := newPage(loader, rec)
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	body, _ := page.State().Model.Field("body")
	if err := page.SetFieldValue(body, "Hello", false); err != nil {
		t.Fatalf("set body: %v", err)
	}
	if err := page.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := map[string]any{
		"_slug":     nil,
		"_template": nil,
		"title":     "Hi",
		"body":      "Hello",
		"tags":      "go, web",
		"pub_date":  nil,
		"summary":   nil,
	}
	if diff := cmp.Diff(want, loader.puts[0].Data); diff != "" {
		t.Fatalf("payload data mismatch (-want +got):\n%s", diff)
	}
	if page.State().PendingChanges {
		t.Fatalf("pending flag should clear after save")
	}
}

func TestPage_LoadFailureShowsError(t *testing.T) {
	loader := newFakeLoader()
	loader.getErr = errBackend
	rec := &recorder{}
	page := newPage(loader, rec)

	err := page.Mount(context.Background(), recordpath.New("/missing", ""))
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(rec.errors) != 1 {
		t.Fatalf("expected one dialog error, got %d", len(rec.errors))
	}
	if _, ok := page.View(); ok {
		t.Fatalf("expected no view after failed first load")
	}

	loader.getErr = nil
	loader.records["/missing"] = minimalRecord()
	if err := page.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if page.State().Status != editpage.StatusReady {
		t.Fatalf("page should recover after reload")
	}
}

func TestPage_SaveFailureKeepsState(t *testing.T) {
	loader := newFakeLoader(blogRecord(""))
	loader.putErr = errBackend
	rec := &recorder{}
	page := newPage(loader, rec)
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	title, _ := page.State().Model.Field("title")
	_ = page.SetFieldValue(title, "Changed", false)

	if err := page.Save(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	state := page.State()
	if state.Status != editpage.StatusReady || !state.PendingChanges {
		t.Fatalf("expected ready with pending changes, got %s pending=%v", state.Status, state.PendingChanges)
	}
	if got, _ := state.Value("title"); got != "Changed" {
		t.Fatalf("local edit lost: %#v", got)
	}
	if len(rec.errors) != 1 || len(rec.navs) != 0 {
		t.Fatalf("expected one dialog error and no navigation, got %v / %v", rec.errors, rec.navs)
	}
}

func TestPage_DeleteRecordNavigates(t *testing.T) {
	loader := newFakeLoader(blogRecord("de"))
	rec := &recorder{}
	page := newPage(loader, rec)
	if err := page.DeleteRecord(); !errors.Is(err, editpage.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "de")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := page.DeleteRecord(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff([]navCall{{Page: editpage.PageDelete, Path: "root:blog:first-post+de"}}, rec.navs); diff != "" {
		t.Fatalf("navigation mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_AcceleratorSavesValidForm(t *testing.T) {
	loader := newFakeLoader(blogRecord(""))
	rec := &recorder{}
	page := newPage(loader, rec)
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !page.PressSaveAccelerator(context.Background()) {
		t.Fatalf("accelerator should be default-prevented")
	}
	if loader.putCount() != 1 {
		t.Fatalf("expected one write, got %d", loader.putCount())
	}
}

func TestPage_AcceleratorOnInvalidFormDoesNotWrite(t *testing.T) {
	loader := newFakeLoader(blogRecord(""))
	rec := &recorder{}
	page := newPage(loader, rec)
	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	title, _ := page.State().Model.Field("title")
	if err := page.SetFieldValue(title, "", false); err != nil {
		t.Fatalf("clear title: %v", err)
	}

	if !page.PressSaveAccelerator(context.Background()) {
		t.Fatalf("accelerator should be default-prevented")
	}
	if loader.putCount() != 0 {
		t.Fatalf("invalid form must not be written, got %d writes", loader.putCount())
	}
	if len(rec.errors) != 1 || !errors.Is(rec.errors[0], editpage.ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm in dialog, got %v", rec.errors)
	}
	view, _ := page.View()
	field, _ := view.Field("title")
	if field.Error == "" {
		t.Fatalf("expected field error on title")
	}
}

func TestPage_UnmountReleasesKeySubscription(t *testing.T) {
	bus := editpage.NewKeyBus()
	loader := newFakeLoader(blogRecord(""))
	page := newPage(loader, &recorder{}, editpage.WithKeyBus(bus))

	if err := page.Mount(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := page.Navigate(context.Background(), recordpath.New("/blog/first-post", "")); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if bus.Len() != 1 {
		t.Fatalf("expected one subscription, got %d", bus.Len())
	}
	page.Unmount()
	page.Unmount()
	if bus.Len() != 0 {
		t.Fatalf("expected subscription released, got %d", bus.Len())
	}
	if bus.Dispatch(editpage.SaveAccelerator(editpage.PlatformOther)) {
		t.Fatalf("unmounted page must not handle keys")
	}
	if loader.putCount() != 0 {
		t.Fatalf("unexpected write after unmount")
	}
}

func TestPage_NavigateSkipsSameRecord(t *testing.T) {
	loader := newFakeLoader(blogRecord(""), minimalRecord())
	page := newPage(loader, &recorder{})
	ctx := context.Background()

	_ = page.Mount(ctx, recordpath.New("/blog/first-post", ""))
	_ = page.Navigate(ctx, recordpath.New("/blog/first-post/", ""))
	if len(loader.gets) != 1 {
		t.Fatalf("expected one load for the same record, got %d", len(loader.gets))
	}
	title, _ := page.State().Model.Field("title")
	_ = page.SetFieldValue(title, "Edited", false)

	if err := page.Navigate(ctx, recordpath.New("/about", "")); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	state := page.State()
	if state.PendingChanges || state.Info.Path != "/about" {
		t.Fatalf("navigation should replace the record, got %+v", state.Info)
	}
}

func TestPage_StaleLoadIsDropped(t *testing.T) {
	loader := newFakeLoader(blogRecord(""), minimalRecord())
	started := make(chan struct{})
	release := make(chan struct{})
	loader.hooks["/blog/first-post"] = func() {
		close(started)
		<-release
	}
	page := newPage(loader, &recorder{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- page.Mount(ctx, recordpath.New("/blog/first-post", ""))
	}()
	<-started

	if err := page.Navigate(ctx, recordpath.New("/about", "")); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale mount: %v", err)
	}

	state := page.State()
	if state.Info == nil || state.Info.Path != "/about" {
		t.Fatalf("stale response overwrote newer state: %+v", state.Info)
	}
	if diff := cmp.Diff(map[string]any{"title": "Hi"}, state.Record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_SetFieldText(t *testing.T) {
	loader := newFakeLoader(blogRecord(""))
	page := newPage(loader, &recorder{})
	_ = page.Mount(context.Background(), recordpath.New("/blog/first-post", ""))

	changed, err := page.SetFieldText("tags", []string{"go", "web"})
	if err != nil || changed {
		t.Fatalf("unchanged tags should not count as edit: %v %v", changed, err)
	}
	changed, err = page.SetFieldText("tags", []string{"go"})
	if err != nil || !changed {
		t.Fatalf("expected tags change: %v %v", changed, err)
	}
	got, _ := page.State().Value("tags")
	if diff := cmp.Diff([]string{"go"}, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}
