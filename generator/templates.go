package generator

import (
	"embed"
	"strconv"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}
}

// templateFuncs provides custom functions for templates
var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

// modelTemplate is the template rendering one file of entity structs.
const modelTemplate = "model.go.tmpl"

// fileData is the data passed to modelTemplate.
type fileData struct {
	PackageName   string
	SchemaName    string
	SchemaVersion string
	Types         []typeData
}

type typeData struct {
	// Name is the Go type name
	Name string
	// Entity is the original entity name
	Entity string
	// Key is the Go name of the key field, if any
	Key    string
	Fields []fieldData
}

type fieldData struct {
	Name      string
	GoType    string
	JSONName  string
	OmitEmpty bool
	Key       bool
}
