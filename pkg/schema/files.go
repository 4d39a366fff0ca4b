package schema

import (
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

var (
	imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	// Word and PDF.
	documentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
)

// ImageFile accepts JPEG, PNG, and WebP uploads.
func ImageFile() Rule {
	return FileTypes(imageTypes...).WithMessage("Only JPEG, PNG, and WebP images are allowed")
}

// DocumentFile accepts PDF and Word uploads.
func DocumentFile() Rule {
	return FileTypes(documentTypes...).WithMessage("Only PDF and Word documents are allowed")
}

// FileTypes restricts every uploaded file to the given MIME types. When a
// file carries no content type it is inferred from the extension.
func FileTypes(types ...string) Rule {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	return fileRule("fileTypes", fmt.Sprintf("File type must be one of: %s", strings.Join(types, ", ")), func(f model.File) bool {
		_, ok := allowed[contentType(f)]
		return ok
	})
}

// MaxFileSize limits every uploaded file to bytes.
func MaxFileSize(bytes int64) Rule {
	mb := strconv.FormatFloat(float64(bytes)/1024/1024, 'f', -1, 64)
	return fileRule("maxFileSize", fmt.Sprintf("File size must be less than %sMB", mb), func(f model.File) bool {
		return f.Size <= bytes
	})
}

// MinItems requires a collection (files, multi-select values) with at
// least n entries.
func MinItems(n int) Rule {
	return Custom("minItems", fmt.Sprintf("At least %d item(s) required", n), func(value any, _ map[string]any) bool {
		if value == nil {
			return n <= 0
		}
		return varOK(value, fmt.Sprintf("min=%d", n))
	})
}

// UniqueValues rejects collections with repeated entries.
func UniqueValues() Rule {
	return tagRule("unique", "unique", "Values must be unique")
}

func fileRule(kind, message string, accept func(model.File) bool) Rule {
	return Rule{
		kind:      kind,
		message:   message,
		skipEmpty: true,
		check: func(value any, _ map[string]any) bool {
			switch v := value.(type) {
			case model.File:
				return accept(v)
			case []model.File:
				for _, f := range v {
					if !accept(f) {
						return false
					}
				}
				return true
			}
			return false
		},
	}
}

func contentType(f model.File) string {
	ct := f.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return strings.ToLower(mediaType)
	}
	return strings.ToLower(ct)
}
