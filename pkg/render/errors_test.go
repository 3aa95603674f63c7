package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

func sampleView() editpage.View {
	return editpage.View{
		Title: "Edit “About”",
		Fields: []editpage.FieldView{
			{Name: "title", Kind: widgets.KindText, HasValue: true},
			{Name: "body", Kind: widgets.KindTextArea, HasValue: true},
			{Name: "pub_date", Kind: widgets.KindDate, HasValue: true, Disabled: true},
			{Name: "divider", Kind: widgets.KindLine},
		},
	}
}

func TestMapError_Validation(t *testing.T) {
	verr := &editpage.ValidationError{Fields: []editpage.FieldError{
		{Field: "title", Err: editpage.ErrRequired},
		{Field: "title", Err: editpage.ErrRequired},
		{Field: "hidden", Err: widgets.ErrInvalidInteger},
	}}

	mapped := render.MapError(sampleView(), verr)
	wantFields := map[string][]string{"title": {"value is required"}}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"hidden: widgets: not a valid integer"}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapError_RequestAndPlain(t *testing.T) {
	reqErr := &client.RequestError{Method: "PUT", URL: "/rawrecord", Status: 500, Message: "disk full"}
	mapped := render.MapError(sampleView(), errors.Join(errors.New("editpage: save"), reqErr))
	if diff := cmp.Diff([]string{"disk full"}, mapped.Form); diff != "" {
		t.Fatalf("request error mismatch (-want +got):\n%s", diff)
	}

	plain := render.MapError(sampleView(), errors.New("  boom "))
	if diff := cmp.Diff([]string{"boom"}, plain.Form); diff != "" {
		t.Fatalf("plain error mismatch (-want +got):\n%s", diff)
	}
	if !render.MapError(sampleView(), nil).Empty() {
		t.Fatalf("nil error should map to nothing")
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
