package domain

import "strings"

// FileFormatVideo is the fixed format label for video sources regardless of
// any URL extension.
const FileFormatVideo = "video"

// SupportedExtensions maps the allowed document extensions (without dot) to
// their MIME content types for the document-understanding service.
var SupportedExtensions = map[string]string{
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"ppt":  "application/vnd.ms-powerpoint",
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"doc":  "application/msword",
}

// defaultMIMEType is the best-guess content type for unrecognized extensions.
const defaultMIMEType = "application/pdf"

// extension returns the lower-cased extension of key, without the dot.
func extension(key string) string {
	name := key
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return strings.ToLower(name[i+1:])
	}
	return ""
}

// MIMETypeFor infers the content type for an object key from its extension,
// falling back to application/pdf for anything unrecognized.
func MIMETypeFor(key string) string {
	if mime, ok := SupportedExtensions[extension(key)]; ok {
		return mime
	}
	return defaultMIMEType
}

// FileFormatFor maps an object key to its file_format column value. Unknown
// extensions yield the Unknown sentinel.
func FileFormatFor(key string) string {
	ext := extension(key)
	if _, ok := SupportedExtensions[ext]; ok {
		return ext
	}
	return Unknown
}

// IsSupportedSource reports whether key names a processable object: not a
// directory marker and carrying an allow-listed extension (case-insensitive).
func IsSupportedSource(key string) bool {
	if strings.HasSuffix(key, "/") {
		return false
	}
	_, ok := SupportedExtensions[extension(key)]
	return ok
}
