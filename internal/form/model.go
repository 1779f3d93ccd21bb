// internal/form/model.go
//
// Formhook – Forms subsystem: submission records.
//
// Context
//   A submission arrives raw (SubmittedForm) from the multipart parser, the
//   JSON decoder, or a test.  Validate turns it into a ValidatedForm or an
//   ErrorSet.  Nothing here performs I/O except File.Open.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Rule constants.  The avatar limit is inclusive.
const (
	MaxAvatarBytes     = 5 * 1024 * 1024
	MinPasswordLength  = 6
	MinTechs           = 2
	MinKnowledge       = 1
	MaxKnowledge       = 100
	AllowedEmailDomain = "gmail.com"
	DefaultBucket      = "form-hook-zod-bucket"
)

// -----------------------------------------------------------------------------
// Raw input
// -----------------------------------------------------------------------------

// File is a handle to one selected file.  Size must be known before Open so
// the size rule can run without touching the payload.
type File interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// SubmittedForm is the raw record of one submission attempt.
type SubmittedForm struct {
	Avatar   []File
	Name     string
	Email    string
	Password string
	Techs    []RawTech
}

// RawTech is one technology row as the caller received it.  Knowledge may be
// any Go integer, float64, json.Number, or string.
type RawTech struct {
	Title     string
	Knowledge any
}

// -----------------------------------------------------------------------------
// Normalized output
// -----------------------------------------------------------------------------

// ValidatedForm is only ever built by Validate.
type ValidatedForm struct {
	Avatar   Avatar `json:"avatar"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // never echoed
	Techs    []Tech `json:"techs"`
}

// Avatar carries the uploaded image.  Data is omitted from JSON echoes.
type Avatar struct {
	Name string `json:"name"`
	Size int    `json:"size"`
	Data []byte `json:"-"`
}

// Tech is a validated technology row.
type Tech struct {
	Title     string `json:"title"`
	Knowledge int    `json:"knowledge"`
}

// Submitted converts vf back into raw input.  Validating the result yields
// vf again.
func (vf ValidatedForm) Submitted() SubmittedForm {
	techs := make([]RawTech, len(vf.Techs))
	for i, t := range vf.Techs {
		techs[i] = RawTech{Title: t.Title, Knowledge: t.Knowledge}
	}
	return SubmittedForm{
		Avatar:   []File{BytesFile(vf.Avatar.Name, vf.Avatar.Data)},
		Name:     vf.Name,
		Email:    vf.Email,
		Password: vf.Password,
		Techs:    techs,
	}
}

// -----------------------------------------------------------------------------
// File adapters
// -----------------------------------------------------------------------------

type memFile struct {
	name string
	data []byte
}

// BytesFile wraps an in-memory payload.
func BytesFile(name string, data []byte) File { return memFile{name: name, data: data} }

func (f memFile) Name() string { return f.name }
func (f memFile) Size() int64  { return int64(len(f.data)) }
func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type partFile struct{ fh *multipart.FileHeader }

// PartFile adapts a multipart file header.
func PartFile(fh *multipart.FileHeader) File { return partFile{fh: fh} }

func (f partFile) Name() string                 { return f.fh.Filename }
func (f partFile) Size() int64                  { return f.fh.Size }
func (f partFile) Open() (io.ReadCloser, error) { return f.fh.Open() }

type localFile struct {
	path string
	size int64
}

// OpenLocalFile stats path and returns a lazy handle.  The key used for the
// upload is the base name, never the directory.
func OpenLocalFile(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return localFile{path: path, size: fi.Size()}, nil
}

func (f localFile) Name() string                 { return filepath.Base(f.path) }
func (f localFile) Size() int64                  { return f.size }
func (f localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }
