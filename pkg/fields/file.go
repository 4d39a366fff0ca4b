package fields

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

// ErrFileRejected wraps selections refused because of maxFiles or
// maxSize. The message is also recorded as the field error.
var ErrFileRejected = errors.New("fields: file selection rejected")

// FileField renders an upload control with a drop zone and a removable
// list of the accepted files.
type FileField struct {
	base
	props model.FileProps
}

// NewFile builds a file renderer. MaxSize defaults to 5 MiB and MaxFiles
// to 1.
func NewFile(common Common, props model.FileProps) *FileField {
	if props.MaxSize <= 0 {
		props.MaxSize = model.DefaultMaxFileSize
	}
	if props.MaxFiles <= 0 {
		props.MaxFiles = 1
	}
	return &FileField{base: base{common: common}, props: props}
}

// FileProps returns the type-specific props.
func (f *FileField) FileProps() model.FileProps {
	return f.props
}

// Register adds the field to c. The value is always a []model.File.
func (f *FileField) Register(c *state.Controller) error {
	return f.register(c, state.FieldOptions{
		Empty:  []model.File{},
		Coerce: coerceFiles,
		Rules:  f.common.rules(),
	})
}

// Check returns the constraint message for a selection, or "" when it is
// acceptable.
func (f *FileField) Check(files []model.File) string {
	if len(files) > f.props.MaxFiles {
		return fmt.Sprintf("Maximum %d file(s) allowed", f.props.MaxFiles)
	}
	for _, file := range files {
		if file.Size > f.props.MaxSize {
			return fmt.Sprintf("File %q is too large. Maximum size: %sMB", file.Name, megabytes(f.props.MaxSize))
		}
	}
	return ""
}

// Select applies a browsed selection. A selection that breaks maxFiles or
// maxSize is rejected whole: the value is left unchanged and the message
// becomes the field error. An accepted selection replaces the value and
// clears the error; single-file fields keep only the first file.
func (f *FileField) Select(files []model.File) error {
	c, err := f.bound()
	if err != nil {
		return err
	}
	if f.common.Disabled {
		return fmt.Errorf("%w: %q", ErrDisabled, f.common.Name)
	}
	if msg := f.Check(files); msg != "" {
		c.SetError(f.common.Name, msg)
		return fmt.Errorf("%w: %s", ErrFileRejected, msg)
	}
	next := append([]model.File(nil), files...)
	if !f.props.Multiple && len(next) > 1 {
		next = next[:1]
	}
	if next == nil {
		next = []model.File{}
	}
	if err := c.SetValue(f.common.Name, next); err != nil {
		return err
	}
	if len(next) > 0 {
		c.SetError(f.common.Name, "")
	}
	return nil
}

// Drop applies files dropped on the zone. It is ignored when the field is
// disabled.
func (f *FileField) Drop(files []model.File) error {
	if f.common.Disabled {
		return nil
	}
	return f.Select(files)
}

// SelectHeaders converts multipart headers and applies them with Select.
func (f *FileField) SelectHeaders(headers []*multipart.FileHeader) error {
	files := make([]model.File, 0, len(headers))
	for _, h := range headers {
		if h == nil || h.Filename == "" {
			continue
		}
		files = append(files, model.FileFromHeader(h))
	}
	return f.Select(files)
}

// Remove drops the file at index and keeps the others.
func (f *FileField) Remove(index int) error {
	c, err := f.bound()
	if err != nil {
		return err
	}
	current, _ := c.Value(f.common.Name)
	files, _ := coerceFiles(current).([]model.File)
	if index < 0 || index >= len(files) {
		return fmt.Errorf("fields: remove file %d from %q: index out of range", index, f.common.Name)
	}
	next := make([]model.File, 0, len(files)-1)
	next = append(next, files[:index]...)
	next = append(next, files[index+1:]...)
	return f.set(next)
}

// Render writes the drop zone, the hidden file input and the file list.
func (f *FileField) Render(w io.Writer, view View) error {
	id := f.common.Name + "-file"
	ch := newChrome(f.common, id, view)
	files, _ := coerceFiles(view.value(f.common.Name)).([]model.File)

	var b strings.Builder
	ch.writeOpen(&b, "")

	zone := []string{"relative border-2 border-dashed rounded-lg p-6 text-center cursor-pointer transition-colors"}
	switch {
	case ch.err != "":
		zone = append(zone, "border-red-300 bg-red-50")
	case !f.common.Disabled:
		zone = append(zone, "border-gray-300 hover:border-gray-400")
	}
	if f.common.Disabled {
		zone = append(zone, "opacity-50 cursor-not-allowed")
	}
	zone = append(zone, f.props.ClassName)
	b.WriteString(`<div data-dropzone`)
	writeAttr(&b, "class", joinClasses(zone...))
	b.WriteString(">")

	b.WriteString(`<label`)
	writeAttr(&b, "for", id)
	b.WriteString(` class="space-y-2 block">`)
	b.WriteString(`<input`)
	writeAttr(&b, "id", id)
	writeAttr(&b, "name", f.common.Name)
	writeAttr(&b, "type", "file")
	writeOptionalAttr(&b, "accept", f.props.Accept)
	writeBoolAttr(&b, "multiple", f.props.Multiple)
	// The transparent input covers the zone so dropped files land on it.
	if f.common.Disabled {
		writeAttr(&b, "class", "absolute inset-0 w-full h-full opacity-0 cursor-not-allowed")
	} else {
		writeAttr(&b, "class", "absolute inset-0 w-full h-full opacity-0 cursor-pointer")
	}
	ch.writeControlAttrs(&b)
	b.WriteString(">")

	b.WriteString(`<span class="text-sm text-gray-600">`)
	if len(files) > 0 {
		b.WriteString(`<span class="font-medium text-blue-600">`)
		b.WriteString(strconv.Itoa(len(files)))
		b.WriteString(` file(s) selected</span>`)
	} else {
		b.WriteString(`<span class="font-medium text-blue-600">Click to upload</span> or drag and drop`)
	}
	b.WriteString(`</span>`)

	b.WriteString(`<span class="block text-xs text-gray-500">`)
	if f.props.Accept != "" {
		b.WriteString(`<span class="block">Accepted: `)
		b.WriteString(escape(f.props.Accept))
		b.WriteString(`</span>`)
	}
	b.WriteString(`<span class="block">Max size: `)
	b.WriteString(megabytes(f.props.MaxSize))
	b.WriteString(`MB</span>`)
	if f.props.Multiple {
		b.WriteString(`<span class="block">Max files: `)
		b.WriteString(strconv.Itoa(f.props.MaxFiles))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</span></label></div>`)

	if len(files) > 0 {
		b.WriteString(`<ul class="mt-2 space-y-1">`)
		for idx, file := range files {
			b.WriteString(`<li class="flex items-center justify-between p-2 bg-gray-50 rounded">`)
			b.WriteString(`<span class="text-sm text-gray-700 truncate">`)
			b.WriteString(escape(file.Name))
			b.WriteString(`</span><button type="submit" class="text-red-600 hover:text-red-800 ml-2"`)
			writeAttr(&b, "name", ActionParam)
			writeAttr(&b, "value", RemoveAction(f.common.Name, idx))
			writeAttr(&b, "aria-label", "Remove "+file.Name)
			writeBoolAttr(&b, "disabled", f.common.Disabled)
			b.WriteString(`>&times;</button></li>`)
		}
		b.WriteString(`</ul>`)
	}

	ch.writeFeedback(&b, "")
	b.WriteString(`</div>`)
	return flush(w, &b)
}

func megabytes(size int64) string {
	return strconv.FormatFloat(float64(size)/1024/1024, 'f', -1, 64)
}
