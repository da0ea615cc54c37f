package fetch

import (
	"bytes"
	"mime"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// sniffWindow bounds how far into the document a meta charset
// declaration is looked for.
const sniffWindow = 1024

var (
	metaCharsetRe = regexp.MustCompile(`(?i)<meta[^>]+charset\s*=\s*["']?\s*([a-zA-Z0-9_\-]+)`)
	xmlCharsetRe  = regexp.MustCompile(`(?i)<\?xml[^>]+encoding\s*=\s*["']([a-zA-Z0-9_\-]+)["']`)
)

// decodeBody converts the raw page bytes to UTF-8. Resolution order:
// the Content-Type charset parameter, then a charset declaration
// sniffed from the head of the document, then UTF-8. An unknown or
// unsupported charset name also falls through to UTF-8 instead of
// failing the fetch.
func decodeBody(body []byte, contentType string) (string, string) {
	name := charsetFromContentType(contentType)
	if name == "" {
		name = charsetFromBody(body)
	}
	if name == "" {
		name = "utf-8"
	}

	enc, canonical := lookupEncoding(name)
	if enc == nil {
		return string(body), "utf-8"
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body), "utf-8"
	}
	return string(decoded), canonical
}

// charsetFromContentType extracts the charset parameter of the
// Content-Type header, if any.
func charsetFromContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		return strings.TrimSpace(params["charset"])
	}
	return ""
}

// charsetFromBody sniffs a meta or XML-prolog charset declaration from
// the first kilobyte of the document.
func charsetFromBody(body []byte) string {
	head := body
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}

	if m := metaCharsetRe.FindSubmatch(head); len(m) == 2 {
		return string(bytes.TrimSpace(m[1]))
	}
	if m := xmlCharsetRe.FindSubmatch(head); len(m) == 2 {
		return string(bytes.TrimSpace(m[1]))
	}
	return ""
}

// lookupEncoding resolves a charset name to an encoding. UTF-8 (and
// anything unknown) comes back nil so the caller can skip transforming.
func lookupEncoding(name string) (encoding.Encoding, string) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "utf-8"
	}

	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	if canonical == "utf-8" || enc == unicode.UTF8 {
		return nil, "utf-8"
	}
	return enc, canonical
}
