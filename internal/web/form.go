package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

const (
	// maxRequestSize leaves room to read past an oversized photo to the
	// fields that follow it.
	maxRequestSize = 2*maxPhotoSize + 1<<20
	maxFieldSize   = 64 << 10
)

var errFieldTooLarge = errors.New("form field too large")

// reportForm is a create submission read off the wire. photo is the raw
// upload; photoTooLarge is set when the upload, or the request carrying it,
// went over the size limit and was discarded.
type reportForm struct {
	values        url.Values
	photo         []byte
	photoTooLarge bool
}

// parseReportForm reads a create submission. Multipart bodies are streamed
// part by part so that an oversized photo is dropped without losing the
// text fields. URL-encoded bodies have no photo.
func parseReportForm(w http.ResponseWriter, r *http.Request) (*reportForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &reportForm{values: r.PostForm}, nil
	}
	if err != nil {
		return nil, err
	}

	form := &reportForm{values: url.Values{}}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err == nil {
			err = form.readPart(part)
			_ = part.Close()
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				form.photo = nil
				form.photoTooLarge = true
				return form, nil
			}
			return nil, err
		}
	}
}

func (f *reportForm) readPart(p *multipart.Part) error {
	name := p.FormName()
	switch {
	case name == "photo":
		data, err := io.ReadAll(io.LimitReader(p, maxPhotoSize+1))
		if err != nil {
			return err
		}
		if len(data) > maxPhotoSize {
			f.photoTooLarge = true
			_, err = io.Copy(io.Discard, p)
			return err
		}
		f.photo = data
		return nil
	case p.FileName() != "":
		_, err := io.Copy(io.Discard, p)
		return err
	}

	data, err := io.ReadAll(io.LimitReader(p, maxFieldSize+1))
	if err != nil {
		return err
	}
	if len(data) > maxFieldSize {
		return errFieldTooLarge
	}
	f.values.Add(name, string(data))
	return nil
}
