// internal/form/renderer.go
//
// Formhook – Forms subsystem: HTML renderer.
//
// Context
//   The page is rendered server-side.  RenderForm writes the <form> element:
//   the fixed fields, one row per technology entry, the CSRF token, and one
//   error span per field path filled from an ErrorSet.  Add and remove row
//   buttons submit an `op` value that the handler applies without
//   validating.
//
// Workflow
//   •  writeField emits each fixed field from the fields table.
//   •  writeTechRow emits title + knowledge inputs named techs.<i>.<field>.
//   •  Password and avatar are never prefilled.
//   •  The caller receives template.HTML so the page template does not
//      double-escape the markup.
//
// Style
//   Output HTML is deliberately plain, no framework classes.  Each input gets
//   id="fld-{path}" and is wrapped in <div class="form-field">.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// FieldDef describes one fixed input control.
type FieldDef struct {
	Name        string
	Label       string
	Type        string // file, text, email, password
	Placeholder string
	Accept      string // file inputs only
	MinLength   int
}

// fields is the fixed part of the form, in display order.
var fields = []FieldDef{
	{Name: "avatar", Label: "Avatar", Type: "file", Accept: "image/*"},
	{Name: "name", Label: "Name", Type: "text", Placeholder: "Ana Souza"},
	{Name: "email", Label: "Email", Type: "email", Placeholder: "you@" + AllowedEmailDomain},
	{Name: "password", Label: "Password", Type: "password", MinLength: MinPasswordLength},
}

// Row operations understood by ApplyOp.
const (
	OpAddTech    = "add_tech"
	OpRemoveTech = "remove_tech."
)

// TechRow holds the raw strings of one technology row as typed.
type TechRow struct {
	Title     string
	Knowledge string
}

// Values is the prefill state of the page.
type Values struct {
	Name  string
	Email string
	Techs []TechRow
}

// View bundles everything RenderForm needs.
type View struct {
	Action    string // form action URL
	CSRFToken string
	Values    Values
	Errors    ErrorSet
	FormError string // form-level message, e.g. bad token or upload failure
}

// NewValues returns the blank state: MinTechs empty rows.
func NewValues() Values {
	return Values{Techs: make([]TechRow, MinTechs)}
}

// ValuesFrom captures what the user typed so the page can be re-rendered.
func ValuesFrom(sf SubmittedForm) Values {
	vals := Values{Name: sf.Name, Email: sf.Email}
	for _, t := range sf.Techs {
		k := ""
		if t.Knowledge != nil {
			k = fmt.Sprint(t.Knowledge)
		}
		vals.Techs = append(vals.Techs, TechRow{Title: t.Title, Knowledge: k})
	}
	return vals
}

// ApplyOp edits the row list for an add or remove button.  It reports false
// for anything that is not a row operation.
func (vals *Values) ApplyOp(op string) bool {
	switch {
	case op == OpAddTech:
		vals.Techs = append(vals.Techs, TechRow{})
		return true
	case len(op) > len(OpRemoveTech) && op[:len(OpRemoveTech)] == OpRemoveTech:
		i, err := strconv.Atoi(op[len(OpRemoveTech):])
		if err != nil || i < 0 || i >= len(vals.Techs) {
			return true // stale button, nothing to remove
		}
		vals.Techs = append(vals.Techs[:i], vals.Techs[i+1:]...)
		return true
	default:
		return false
	}
}

// RenderForm returns the <form> markup for v.
func RenderForm(v View) template.HTML {
	msgs := v.Errors.Messages()

	var buf bytes.Buffer
	buf.WriteString(`<form class="formhook" method="post" enctype="multipart/form-data" action="` +
		html.EscapeString(v.Action) + `">` + "\n")

	if v.FormError != "" {
		buf.WriteString(`<p class="form-error">` + html.EscapeString(v.FormError) + `</p>` + "\n")
	}

	for _, f := range fields {
		writeField(&buf, &f, prefill(f.Name, v.Values), msgs[f.Name])
	}

	// Technology rows
	buf.WriteString(`<fieldset class="techs">` + "\n")
	buf.WriteString(`<legend>Technologies</legend>` + "\n")
	buf.WriteString(`<button type="submit" name="op" value="` + OpAddTech + `" formnovalidate>Add</button>` + "\n")
	writeError(&buf, msgs["techs"])
	for i, row := range v.Values.Techs {
		writeTechRow(&buf, i, row, msgs)
	}
	buf.WriteString(`</fieldset>` + "\n")

	buf.WriteString(`<input type="hidden" name="csrf_token" value="` + html.EscapeString(v.CSRFToken) + `">` + "\n")
	buf.WriteString(`<button type="submit">Save</button>` + "\n")
	buf.WriteString(`</form>`)
	return template.HTML(buf.String())
}

// writeField emits one fixed field wrapped in <div class="form-field">.
func writeField(buf *bytes.Buffer, f *FieldDef, val, errMsg string) {
	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="fld-` + f.Name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	buf.WriteString(`<input id="fld-` + f.Name + `" name="` + f.Name + `" type="` + f.Type + `"`)
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Accept != "" {
		buf.WriteString(` accept="` + f.Accept + `"`)
	}
	if f.MinLength > 0 {
		buf.WriteString(` minlength="` + strconv.Itoa(f.MinLength) + `"`)
	}
	// file and password inputs are never prefilled.
	if val != "" && f.Type != "password" && f.Type != "file" {
		buf.WriteString(` value="` + html.EscapeString(val) + `"`)
	}
	buf.WriteString(`>` + "\n")

	writeError(buf, errMsg)
	buf.WriteString(`</div>` + "\n")
}

func writeTechRow(buf *bytes.Buffer, i int, row TechRow, msgs map[string]string) {
	idx := strconv.Itoa(i)
	titlePath := "techs[" + idx + "].title"
	knowPath := "techs[" + idx + "].knowledge"

	buf.WriteString(`<div class="form-field tech-row">` + "\n")
	buf.WriteString(`<input id="fld-` + titlePath + `" name="techs.` + idx + `.title" type="text" placeholder="Title"`)
	if row.Title != "" {
		buf.WriteString(` value="` + html.EscapeString(row.Title) + `"`)
	}
	buf.WriteString(`>` + "\n")
	writeError(buf, msgs[titlePath])

	buf.WriteString(`<input id="fld-` + knowPath + `" name="techs.` + idx + `.knowledge" type="number" min="` +
		strconv.Itoa(MinKnowledge) + `" max="` + strconv.Itoa(MaxKnowledge) + `" placeholder="Knowledge"`)
	if row.Knowledge != "" {
		buf.WriteString(` value="` + html.EscapeString(row.Knowledge) + `"`)
	}
	buf.WriteString(`>` + "\n")
	writeError(buf, msgs[knowPath])

	buf.WriteString(`<button type="submit" name="op" value="` + OpRemoveTech + idx + `" formnovalidate>Remove</button>` + "\n")
	buf.WriteString(`</div>` + "\n")
}

// writeError always emits the span so client scripts have a stable target.
func writeError(buf *bytes.Buffer, msg string) {
	buf.WriteString(`<span class="error" aria-live="polite">` + html.EscapeString(msg) + `</span>` + "\n")
}

func prefill(name string, vals Values) string {
	switch name {
	case "name":
		return vals.Name
	case "email":
		return vals.Email
	default:
		return ""
	}
}
