package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName    = "recordedit.css"
	RuntimeScriptName = "recordedit.js"
)

// TemplatesFS exposes the embedded template bundle. Template names are
// relative to the bundle root ("page.tmpl", "components/input.tmpl"), which is
// also the layout expected from a template override directory.
func TemplatesFS() fs.FS {
	return mustSub(embeddedTemplates, "templates")
}

// AssetsFS exposes the embedded stylesheet and runtime script so callers can
// serve them over HTTP.
func AssetsFS() fs.FS {
	return mustSub(embeddedAssets, "assets")
}

// RuntimeScript returns the embedded runtime script source.
func RuntimeScript() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+RuntimeScriptName)
	if err != nil {
		return ""
	}
	return string(data)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
