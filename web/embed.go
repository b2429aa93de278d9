// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates static
var files embed.FS

// Static is the content of the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewRenderer builds one template set per view, keyed by its path under
// templates/views (for example "blog/detail.html"). Every set contains the
// layouts and includes followed by the view itself.
func NewRenderer(funcMap template.FuncMap) (multitemplate.Renderer, error) {
	return newRenderer(files, "templates", funcMap)
}

func newRenderer(fsys fs.FS, root string, funcMap template.FuncMap) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := fs.Glob(fsys, root+"/layouts/*.html")
	if err != nil {
		return nil, err
	}
	includes, err := fs.Glob(fsys, root+"/includes/*.html")
	if err != nil {
		return nil, err
	}

	viewsDir := root + "/views"
	err = fs.WalkDir(fsys, viewsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		set := make([]string, 0, len(layouts)+len(includes)+1)
		set = append(set, layouts...)
		set = append(set, includes...)
		set = append(set, p)

		tmpl, err := template.New(path.Base(set[0])).Funcs(funcMap).ParseFS(fsys, set...)
		if err != nil {
			return err
		}
		r.Add(strings.TrimPrefix(p, viewsDir+"/"), tmpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
