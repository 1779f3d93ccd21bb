// internal/form/parse.go
//
// Formhook – Forms subsystem: request decoding.
//
// Context
//   Two entry points build a SubmittedForm.  ParseRequest reads the browser's
//   multipart POST, where tech rows arrive as “techs.<i>.title” and
//   “techs.<i>.knowledge”.  DecodeJSON reads the CLI's JSON file, where the
//   avatar is a local path and knowledge keeps its raw JSON form.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultMaxMemory bounds the in-memory part of a multipart body; the rest
// spills to temp files.
const DefaultMaxMemory = 8 << 20

// ParseRequest decodes a multipart (or urlencoded) POST.  The avatar list
// holds every part named “avatar” so the count rule can see duplicates.
func ParseRequest(r *http.Request, maxMemory int64) (SubmittedForm, error) {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return SubmittedForm{}, fmt.Errorf("parse multipart: %w", err)
	}
	if r.PostForm == nil {
		if err := r.ParseForm(); err != nil {
			return SubmittedForm{}, fmt.Errorf("parse form: %w", err)
		}
	}

	sf := SubmittedForm{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Techs:    TechRows(r.PostForm),
	}
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["avatar"] {
			// Browsers send an empty part when nothing was chosen.
			if fh.Filename == "" && fh.Size == 0 {
				continue
			}
			sf.Avatar = append(sf.Avatar, PartFile(fh))
		}
	}
	return sf, nil
}

// TechRows collects “techs.<i>.<field>” values ordered by index.  Gaps left
// by removed rows are closed up.
func TechRows(vals url.Values) []RawTech {
	rows := map[int]*RawTech{}
	for key, vs := range vals {
		idx, field, ok := splitTechKey(key)
		if !ok || len(vs) == 0 {
			continue
		}
		row, seen := rows[idx]
		if !seen {
			row = &RawTech{}
			rows[idx] = row
		}
		switch field {
		case "title":
			row.Title = vs[0]
		case "knowledge":
			row.Knowledge = vs[0]
		}
	}

	idxs := make([]int, 0, len(rows))
	for i := range rows {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	out := make([]RawTech, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, *rows[i])
	}
	return out
}

func splitTechKey(key string) (int, string, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "techs" {
		return 0, "", false
	}
	if !canonicalIndex(parts[1]) {
		return 0, "", false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", false
	}
	if parts[2] != "title" && parts[2] != "knowledge" {
		return 0, "", false
	}
	return idx, parts[2], true
}

// canonicalIndex accepts plain decimal digits without a leading zero, so
// “techs.01.title” cannot shadow “techs.1.title”.
func canonicalIndex(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// JSON submissions
// -----------------------------------------------------------------------------

type jsonSubmission struct {
	Avatar   json.RawMessage `json:"avatar"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Techs    []struct {
		Title     string `json:"title"`
		Knowledge any    `json:"knowledge"`
	} `json:"techs"`
}

// DecodeJSON reads a submission document.  "avatar" is a path or a list of
// paths, each resolved through open (usually OpenLocalFile).  Numbers are
// kept as json.Number so coercion sees the exact literal.
func DecodeJSON(r io.Reader, open func(string) (File, error)) (SubmittedForm, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var js jsonSubmission
	if err := dec.Decode(&js); err != nil {
		return SubmittedForm{}, fmt.Errorf("decode submission: %w", err)
	}

	paths, err := avatarPaths(js.Avatar)
	if err != nil {
		return SubmittedForm{}, err
	}

	sf := SubmittedForm{
		Name:     js.Name,
		Email:    js.Email,
		Password: js.Password,
		Techs:    make([]RawTech, len(js.Techs)),
	}
	for i, t := range js.Techs {
		sf.Techs[i] = RawTech{Title: t.Title, Knowledge: t.Knowledge}
	}
	for _, p := range paths {
		f, err := open(p)
		if err != nil {
			return SubmittedForm{}, fmt.Errorf("avatar %s: %w", p, err)
		}
		sf.Avatar = append(sf.Avatar, f)
	}
	return sf, nil
}

func avatarPaths(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil, nil
		}
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("avatar must be a path or a list of paths")
	}
	return many, nil
}
