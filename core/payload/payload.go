// Package payload turns uploaded files into self-contained data URLs and back.
package payload

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core"
)

const defaultType = "application/octet-stream"

var (
	ErrNoFile      = errors.New("please select a file")
	ErrTooLarge    = errors.New("file is too large")
	ErrMalformed   = errors.New("malformed data url")
	errNoFileField = core.FieldError{Field: "file", Error: "this field is required"}
)

// File is a file chosen by the actor. Type may be empty; it is then sniffed from the content.
type File struct {
	Name    string
	Type    string
	Content io.Reader
}

// Payload is an embedded file: Data is `data:<media-type>;base64,<content>`.
type Payload struct {
	Name string
	Type string
	Data string
}

// Encode reads `f` entirely and embeds it. maxSize <= 0 disables the size check.
// Read failures are reported as *core.IOError; ctx cancellation aborts the read.
func Encode(ctx context.Context, f *File, maxSize int64) (Payload, error) {
	if f == nil || f.Content == nil || core.CleanString(f.Name) == "" {
		return Payload{}, core.NewValidationError(ErrNoFile, errNoFileField)
	}

	r := io.Reader(&ctxReader{ctx: ctx, r: f.Content})
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Payload{}, ctxErr
		}
		return Payload{}, core.NewIOError("reading "+f.Name, err)
	}
	if maxSize > 0 && int64(len(content)) > maxSize {
		return Payload{}, core.NewValidationError(
			ErrTooLarge,
			core.FieldError{Field: "file", Error: fmt.Sprintf("file must not exceed %d bytes", maxSize)},
		)
	}

	ct := core.CleanString(f.Type)
	if ct == "" {
		ct = mimetype.Detect(content).String()
	}
	if ct == "" {
		ct = defaultType
	}

	return Payload{
		Name: f.Name,
		Type: ct,
		Data: DataURL(ct, content),
	}, nil
}

// DataURL renders `content` the way browsers' FileReader.readAsDataURL does.
func DataURL(contentType string, content []byte) string {
	mt := contentType
	if base, params, err := mime.ParseMediaType(contentType); err == nil {
		mt = base
		if cs, ok := params["charset"]; ok {
			mt += ";charset=" + cs
		}
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// Decode extracts the media type and the raw bytes from a data URL.
func Decode(dataURL string) (string, []byte, error) {
	rest := strings.TrimPrefix(dataURL, "data:")
	if rest == dataURL {
		return "", nil, ErrMalformed
	}
	idx := strings.IndexByte(rest, ',')
	if idx < 0 {
		return "", nil, ErrMalformed
	}
	meta, data := rest[:idx], rest[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrMalformed
	}
	ct := strings.TrimSuffix(meta, ";base64")
	if ct == "" {
		ct = defaultType
	}
	content, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return ct, content, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
