package editpage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

func TestIsIllegalField(t *testing.T) {
	page := datamodel.RecordInfo{IsAttachment: false}
	attachment := datamodel.RecordInfo{IsAttachment: true}

	for _, name := range []string{"_id", "_path", "_gid", "_alt", "_source_alt", "_model", "_attachment_for"} {
		field := datamodel.Field{Name: name}
		if !editpage.IsIllegalField(field, page) || !editpage.IsIllegalField(field, attachment) {
			t.Fatalf("%s must always be illegal", name)
		}
	}

	attachmentType := datamodel.Field{Name: "_attachment_type"}
	if !editpage.IsIllegalField(attachmentType, page) {
		t.Fatalf("_attachment_type must be illegal on pages")
	}
	if editpage.IsIllegalField(attachmentType, attachment) {
		t.Fatalf("_attachment_type must be legal on attachments")
	}

	for _, name := range []string{"title", "_slug", "_template", "_hidden", "_discoverable"} {
		if editpage.IsIllegalField(datamodel.Field{Name: name}, page) {
			t.Fatalf("%s should be legal", name)
		}
	}
}

func TestBuildRecordData_IdentityFallback(t *testing.T) {
	reg := widgets.NewEmptyRegistry()
	model := datamodel.DataModel{Fields: []datamodel.Field{
		{Name: "a", Type: datamodel.FieldType{Name: "mystery"}},
		{Name: "b", Type: datamodel.FieldType{Name: "mystery"}},
		{Name: "c", Type: datamodel.FieldType{Name: "mystery"}},
	}}
	data := map[string]any{"a": "x", "c": nil, "d": "ignored"}

	got := editpage.BuildRecordData(model, data, reg)
	if diff := cmp.Diff(map[string]any{"a": "x", "c": nil}, got); diff != "" {
		t.Fatalf("record data mismatch (-want +got):\n%s", diff)
	}
}

func TestValueAndPlaceholderForField(t *testing.T) {
	reg := widgets.NewRegistry()
	info := blogRecord("").RecordInfo
	info.ImpliedAttachmentType = "image"
	model := blogModel()
	record := map[string]any{"title": "Hi"}

	field := func(name string) datamodel.Field {
		f, ok := model.Field(name)
		if !ok {
			t.Fatalf("missing field %s", name)
		}
		return f
	}

	if got := editpage.ValueForField(field("title"), record, reg); got != "Hi" {
		t.Fatalf("title value: %#v", got)
	}
	if got := editpage.ValueForField(field("body"), record, reg); got != "" {
		t.Fatalf("absent text value should be empty string, got %#v", got)
	}
	if got := editpage.ValueForField(field("tags"), record, reg); got != nil {
		t.Fatalf("absent checkboxes value should be nil, got %#v", got)
	}

	cases := []struct {
		name string
		want any
	}{
		{name: "summary", want: "No summary"},
		{name: "_slug", want: "{{ this._id }}"},
		{name: "_template", want: "blog-post.html"},
		{name: "_attachment_type", want: "image"},
		{name: "title", want: nil},
	}
	for _, tc := range cases {
		if got := editpage.PlaceholderForField(field(tc.name), info, reg); got != tc.want {
			t.Fatalf("placeholder %s: want %#v, got %#v", tc.name, tc.want, got)
		}
	}
}

func TestFieldDisabled(t *testing.T) {
	primary := datamodel.RecordInfo{Alt: recordpath.PrimaryAlt}
	german := datamodel.RecordInfo{Alt: "de"}

	cases := []struct {
		name     string
		flag     *bool
		info     datamodel.RecordInfo
		disabled bool
	}{
		{name: "null on primary", flag: nil, info: primary, disabled: false},
		{name: "null on alt", flag: nil, info: german, disabled: false},
		{name: "true on primary", flag: boolPtr(true), info: primary, disabled: false},
		{name: "true on alt", flag: boolPtr(true), info: german, disabled: false},
		{name: "false on primary", flag: boolPtr(false), info: primary, disabled: false},
		{name: "false on alt", flag: boolPtr(false), info: german, disabled: true},
		{name: "false with empty alt", flag: boolPtr(false), info: datamodel.RecordInfo{}, disabled: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := datamodel.Field{Name: "x", AltsEnabled: tc.flag}
			if got := editpage.FieldDisabled(field, tc.info); got != tc.disabled {
				t.Fatalf("want disabled=%v, got %v", tc.disabled, got)
			}
		})
	}
}

func TestBuildView(t *testing.T) {
	raw := blogRecord("de")
	raw.RecordInfo.LabelI18n = map[string]string{"de": "Erster Beitrag"}
	state := editpage.Reduce(editpage.State{}, editpage.LoadStarted{Ref: recordpath.New(raw.RecordInfo.Path, "de"), Generation: 1})
	state = editpage.Reduce(state, editpage.Loaded{
		Generation: 1,
		Record:     editpage.BuildRecordData(raw.DataModel, raw.Data, widgets.NewRegistry()),
		Model:      raw.DataModel,
		Info:       raw.RecordInfo,
	})

	view, ok := editpage.BuildView(state, editpage.ViewOptions{
		Locale:     "de",
		Translator: mustCatalog(t),
		Registry:   widgets.NewRegistry(),
	})
	if !ok {
		t.Fatalf("expected view")
	}
	if view.Title != "„Erster Beitrag“ bearbeiten" {
		t.Fatalf("unexpected title %q", view.Title)
	}
	if view.DeleteLabel != "Löschen" || !view.CanBeDeleted {
		t.Fatalf("unexpected delete button: %q %v", view.DeleteLabel, view.CanBeDeleted)
	}

	var names []string
	for _, f := range view.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"_slug", "_template", "title", "body", "tags", "pub_date", "summary"}, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	title, _ := view.Field("title")
	if title.Label != "Titel" || title.Text != "Hi" || title.Disabled {
		t.Fatalf("unexpected title field: %+v", title)
	}
	pubDate, _ := view.Field("pub_date")
	if !pubDate.Disabled {
		t.Fatalf("pub_date should be disabled on a non-primary alt")
	}
	tags, _ := view.Field("tags")
	want := []editpage.ChoiceView{{Value: "go", Label: "go", Selected: true}, {Value: "web", Label: "web", Selected: true}}
	if diff := cmp.Diff(want, tags.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	summary, _ := view.Field("summary")
	if summary.PlaceholderText != "No summary" {
		t.Fatalf("unexpected summary placeholder %q", summary.PlaceholderText)
	}
}

func TestBuildView_AttachmentTitle(t *testing.T) {
	state := editpage.Reduce(editpage.State{}, editpage.LoadStarted{Ref: recordpath.New("/img.png", ""), Generation: 1})
	state = editpage.Reduce(state, editpage.Loaded{
		Generation: 1,
		Model:      datamodel.DataModel{Fields: []datamodel.Field{{Name: "_attachment_type", Type: datamodel.FieldType{Name: "string"}}}},
		Info:       datamodel.RecordInfo{Path: "/img.png", IsAttachment: true, Label: "img.png"},
	})
	view, ok := editpage.BuildView(state, editpage.ViewOptions{Translator: mustCatalog(t), Registry: widgets.NewRegistry()})
	if !ok {
		t.Fatalf("expected view")
	}
	if view.Title != "Edit Metadata of Attachment “img.png”" {
		t.Fatalf("unexpected title %q", view.Title)
	}
	if _, ok := view.Field("_attachment_type"); !ok {
		t.Fatalf("_attachment_type should render on attachments")
	}
}
