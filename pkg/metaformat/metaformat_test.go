package metaformat_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordedit/pkg/metaformat"
)

func TestTokenize(t *testing.T) {
	text := "title: Hello World\n---\nbody:\n\nFirst line\n----\nSecond line\n---\nempty: \n"

	got := metaformat.Tokenize(text)
	want := []metaformat.Pair{
		{Key: "title", Value: "Hello World"},
		{Key: "body", Value: "First line\n---\nSecond line"},
		{Key: "empty", Value: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	pairs := []metaformat.Pair{
		{Key: "title", Value: "Hello: again"},
		{Key: "body", Value: "Line one\n---\nLine two"},
		{Key: "indent", Value: "  leading"},
		{Key: "rule", Value: "a\n--- \nb"},
		{Key: "after", Value: "kept"},
	}

	text := metaformat.Serialize(pairs)
	wantText := "title: Hello: again\n---\nbody:\n\nLine one\n----\nLine two\n---\nindent:\n\n  leading\n" +
		"---\nrule:\n\na\n---- \nb\n---\nafter: kept\n"
	if diff := cmp.Diff(wantText, text); diff != "" {
		t.Fatalf("serialize mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(pairs, metaformat.Tokenize(text)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if value, ok := metaformat.Lookup(pairs, "body"); !ok || value != "Line one\n---\nLine two" {
		t.Fatalf("lookup returned %q, %v", value, ok)
	}
}

func TestParseFlow(t *testing.T) {
	text := "\n#### text ####\ntext: Hello\n---\nclass: intro\n#### image ####\nsrc: a.png\ncaption:\n\n##### quoted #####\n"

	got, err := metaformat.ParseFlow(text)
	if err != nil {
		t.Fatalf("parse flow: %v", err)
	}
	want := []metaformat.FlowBlock{
		{Type: "text", Fields: []metaformat.Pair{{Key: "text", Value: "Hello"}, {Key: "class", Value: "intro"}}},
		{Type: "image", Fields: []metaformat.Pair{{Key: "src", Value: "a.png"}, {Key: "caption", Value: "#### quoted ####"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flow mismatch (-want +got):\n%s", diff)
	}

	again, err := metaformat.ParseFlow(metaformat.SerializeFlow(got))
	if err != nil {
		t.Fatalf("reparse flow: %v", err)
	}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("flow round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeFlow_IndentedMarkerInValue(t *testing.T) {
	blocks := []metaformat.FlowBlock{
		{Type: "text", Fields: []metaformat.Pair{{Key: "text", Value: "  #### not a block ####"}, {Key: "class", Value: "quote"}}},
	}

	text := metaformat.SerializeFlow(blocks)
	if !strings.Contains(text, "  ##### not a block #####\n") {
		t.Fatalf("indented marker not escaped:\n%s", text)
	}

	got, err := metaformat.ParseFlow(text)
	if err != nil {
		t.Fatalf("parse flow: %v", err)
	}
	if diff := cmp.Diff(blocks, got); diff != "" {
		t.Fatalf("flow round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlow_Malformed(t *testing.T) {
	if _, err := metaformat.ParseFlow("stray text\n#### text ####\n"); !errors.Is(err, metaformat.ErrMalformedFlow) {
		t.Fatalf("expected ErrMalformedFlow, got %v", err)
	}
}
