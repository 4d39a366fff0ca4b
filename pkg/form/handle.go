package form

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/goliatone/go-formkit/pkg/fields"
)

// MaxMultipartMemory bounds the memory used when parsing uploads; larger
// files are spooled to disk by net/http.
const MaxMultipartMemory = 32 << 20

// ErrBadRequest wraps request decoding failures.
var ErrBadRequest = errors.New("form: bad request")

type valueSetter interface {
	SetValue(value any) error
}

// Handle applies a posted form to the controller and performs the action
// named by the pressed button (submit, reset, remove a file, search or
// choose an option). Uploaded files are checked against the file field
// limits; a rejected selection becomes a field error, not a request error.
// While the form is busy every post is rejected with ErrSubmitInProgress
// and its values are not applied.
//
// Uploaded files keep the request's multipart headers. net/http removes
// spooled parts when the request ends, so a handler must read uploads
// during the request that submits them; files posted by an earlier
// request can only be opened if they were small enough to stay in memory.
func (f *Form) Handle(ctx context.Context, r *http.Request) (Result, error) {
	if f.Busy() {
		return Result{}, ErrSubmitInProgress
	}
	values, uploads, err := parseRequest(r)
	if err != nil {
		return Result{}, err
	}
	action, err := fields.ParseAction(values.Get(fields.ActionParam))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	rejected := false
	for idx, cfg := range f.configs {
		if cfg.Disabled {
			continue
		}
		ok, err := f.applyPosted(f.renderers[idx], values, uploads)
		if err != nil {
			return Result{Action: action.Kind}, err
		}
		rejected = rejected || !ok
	}

	result := Result{Action: action.Kind}
	switch action.Kind {
	case fields.ActionSubmit:
		if rejected {
			// Validation would replace the rejection message.
			result.Status = StatusInvalid
			result.Errors = f.controller.Snapshot().Errors
			return result, nil
		}
		return f.Submit(ctx)
	case fields.ActionReset:
		if f.Busy() {
			return result, ErrSubmitInProgress
		}
		f.Reset()
	case fields.ActionRemove:
		file, ok := f.byName[action.Field].(*fields.FileField)
		if !ok {
			return result, fmt.Errorf("%w: %q is not a file field", ErrBadRequest, action.Field)
		}
		if err := file.Remove(action.Index); err != nil {
			return result, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	case fields.ActionSearch:
		if _, ok := f.byName[action.Field].(*fields.SelectField); !ok {
			return result, fmt.Errorf("%w: %q is not a select field", ErrBadRequest, action.Field)
		}
	case fields.ActionChoose:
		if err := f.choose(action.Field, action.Value); err != nil {
			return result, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	result.Errors = f.controller.Snapshot().Errors
	return result, nil
}

func (f *Form) choose(name, value string) error {
	switch r := f.byName[name].(type) {
	case *fields.SelectField:
		return r.Choose(value)
	case *fields.RadioField:
		return r.Choose(value)
	default:
		return fmt.Errorf("%q does not have options", name)
	}
}

// applyPosted reports false when an upload was rejected; the rejection is
// recorded as the field error.
func (f *Form) applyPosted(r fields.Field, values url.Values, uploads map[string][]*multipart.FileHeader) (bool, error) {
	name := r.Name()
	switch field := r.(type) {
	case *fields.FileField:
		if headers := uploads[name]; len(headers) > 0 {
			if err := field.SelectHeaders(headers); err != nil {
				if errors.Is(err, fields.ErrFileRejected) {
					return false, nil
				}
				return false, err
			}
		}
		return true, nil
	case *fields.CheckboxField:
		// Unchecked boxes are not posted.
		return true, field.SetValue(values[name])
	case *fields.SelectField:
		if field.SelectProps().Searchable {
			if term, ok := values[fields.SearchParam(name)]; ok {
				field.Search(firstOf(term))
			}
		}
		if field.SelectProps().Multiple {
			return true, field.SetValue(values[name])
		}
	}
	posted, ok := values[name]
	if !ok {
		return true, nil
	}
	setter, ok := r.(valueSetter)
	if !ok {
		return true, nil
	}
	return true, setter.SetValue(firstOf(posted))
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func parseRequest(r *http.Request) (url.Values, map[string][]*multipart.FileHeader, error) {
	if r == nil {
		return nil, nil, fmt.Errorf("%w: nil request", ErrBadRequest)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(MaxMultipartMemory); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return r.PostForm, r.MultipartForm.File, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return r.PostForm, nil, nil
}
