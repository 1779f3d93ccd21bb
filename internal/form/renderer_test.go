package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderForm_Blank(t *testing.T) {
	out := string(RenderForm(View{Action: "/", CSRFToken: "tok", Values: NewValues()}))

	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `<input type="hidden" name="csrf_token" value="tok">`)
	assert.Contains(t, out, `name="techs.1.knowledge"`)
	assert.NotContains(t, out, `name="techs.2.title"`)
	assert.Contains(t, out, `accept="image/*"`)
}

func TestRenderForm_ErrorsAndPrefill(t *testing.T) {
	sf := validForm()
	sf.Name = `<script>x</script>`
	sf.Email = "ana@yahoo.com"
	sf.Techs[1].Knowledge = 0
	_, err := Validate(sf)

	out := string(RenderForm(View{Values: ValuesFrom(sf), Errors: ErrorsOf(err)}))

	assert.Contains(t, out, msgEmailDomain)
	assert.Contains(t, out, msgKnowledgeRange)
	assert.Contains(t, out, `value="ana@yahoo.com"`)
	assert.Contains(t, out, `value="0"`)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `value="secret1"`, "password is never prefilled")
}

func TestRenderForm_FormError(t *testing.T) {
	out := string(RenderForm(View{FormError: "Upload failed & retry"}))
	assert.Contains(t, out, `<p class="form-error">Upload failed &amp; retry</p>`)
}

func TestApplyOp(t *testing.T) {
	vals := Values{Techs: []TechRow{{Title: "Go"}, {Title: "SQL"}, {Title: "Rust"}}}

	assert.True(t, vals.ApplyOp(OpAddTech))
	assert.Len(t, vals.Techs, 4)

	assert.True(t, vals.ApplyOp(OpRemoveTech+"1"))
	assert.Equal(t, []string{"Go", "Rust", ""}, titles(vals))

	assert.True(t, vals.ApplyOp(OpRemoveTech+"9"), "stale index is still a row op")
	assert.Len(t, vals.Techs, 3)

	assert.False(t, vals.ApplyOp(""))
	assert.False(t, vals.ApplyOp("submit"))
}

func titles(v Values) []string {
	out := make([]string, len(v.Techs))
	for i, r := range v.Techs {
		out[i] = r.Title
	}
	return out
}
