package editpage_test

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-recordedit/pkg/client"
	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
)

var errBackend = errors.New("backend unavailable")

type fakeLoader struct {
	mu      sync.Mutex
	records map[string]datamodel.RawRecord
	getErr  error
	putErr  error
	puts    []client.SavePayload
	gets    []recordpath.Ref

	// hooks[path] runs inside GetRawRecord before the record is returned.
	hooks map[string]func()
}

func newFakeLoader(records ...datamodel.RawRecord) *fakeLoader {
	l := &fakeLoader{records: make(map[string]datamodel.RawRecord), hooks: make(map[string]func())}
	for _, rec := range records {
		l.records[rec.RecordInfo.Path] = rec
	}
	return l
}

func (l *fakeLoader) GetRawRecord(_ context.Context, ref recordpath.Ref) (datamodel.RawRecord, error) {
	l.mu.Lock()
	l.gets = append(l.gets, ref)
	hook := l.hooks[ref.Path]
	rec, ok := l.records[ref.Path]
	err := l.getErr
	l.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return datamodel.RawRecord{}, err
	}
	if !ok {
		return datamodel.RawRecord{}, &client.RequestError{Method: "GET", URL: ref.Path, Status: 404}
	}
	return rec, nil
}

func (l *fakeLoader) PutRawRecord(_ context.Context, payload client.SavePayload) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.putErr != nil {
		return l.putErr
	}
	l.puts = append(l.puts, payload)
	return nil
}

func (l *fakeLoader) putCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.puts)
}

type navCall struct {
	Page string
	Path string
}

type recorder struct {
	mu     sync.Mutex
	navs   []navCall
	errors []error
}

func (r *recorder) TransitionToAdminPage(page, urlPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, navCall{Page: page, Path: urlPath})
}

func (r *recorder) ShowError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func boolPtr(v bool) *bool { return &v }

func blogModel() datamodel.DataModel {
	return datamodel.DataModel{
		ID:   "blog-post",
		Name: "Blog Post",
		Fields: []datamodel.Field{
			{Name: "_id", Type: datamodel.FieldType{Name: "string"}},
			{Name: "_slug", Type: datamodel.FieldType{Name: "slug"}},
			{Name: "_template", Type: datamodel.FieldType{Name: "string"}},
			{Name: "_attachment_type", Type: datamodel.FieldType{Name: "string"}},
			{Name: "title", Type: datamodel.FieldType{Name: "string"}, LabelI18n: map[string]string{"en": "Title", "de": "Titel"}, Required: true},
			{Name: "body", Type: datamodel.FieldType{Name: "markdown"}},
			{Name: "tags", Type: datamodel.FieldType{Name: "checkboxes"}, Choices: []datamodel.Choice{{Value: "go"}, {Value: "web"}}},
			{Name: "pub_date", Type: datamodel.FieldType{Name: "date"}, AltsEnabled: boolPtr(false)},
			{Name: "summary", Type: datamodel.FieldType{Name: "string"}, Default: "No summary"},
		},
	}
}

func blogRecord(alt string) datamodel.RawRecord {
	return datamodel.RawRecord{
		Data: map[string]any{
			"_id":   "first-post",
			"title": "Hi",
			"tags":  "go, web",
			"extra": "not in model",
		},
		DataModel: blogModel(),
		RecordInfo: datamodel.RecordInfo{
			ID:              "first-post",
			Path:            "/blog/first-post",
			Alt:             alt,
			Exists:          true,
			CanBeDeleted:    true,
			SlugFormat:      "{{ this._id }}",
			DefaultTemplate: "blog-post.html",
			Label:           "First Post",
		},
	}
}

func newPage(loader editpage.Loader, rec *recorder, options ...editpage.Option) *editpage.Page {
	opts := []editpage.Option{
		editpage.WithNavigator(rec),
		editpage.WithErrorDialog(rec),
		editpage.WithKeyBus(editpage.NewKeyBus()),
		editpage.WithPlatform(editpage.PlatformOther),
	}
	return editpage.New(loader, append(opts, options...)...)
}
