package form

import (
	"bytes"
	"errors"
	"net/http"
)

// ServeHTTP renders the form on GET and handles posts. Invalid
// submissions re-render with 422.
func (f *Form) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodPost:
		result, err := f.Handle(r.Context(), r)
		switch {
		case errors.Is(err, ErrSubmitInProgress):
			status = http.StatusConflict
		case errors.Is(err, ErrBadRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			f.logger.WithError(err).Error("form: handle request")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		case result.Status == StatusInvalid:
			status = http.StatusUnprocessableEntity
		}
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		f.logger.WithError(err).Error("form: render")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}
