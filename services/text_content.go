package services

import (
	"os"
	"strings"

	"github.com/k3a/html2text"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
)

func isTextMimetype(mimetype string) bool {
	return strings.Contains(mimetype, "text/")
}

// readTextContent loads the file at absPath, sniffs its byte-level encoding
// and decodes it to a Go string. Any failure (missing file, unknown or
// undecodable charset) yields ok=false so the caller can degrade silently.
func readTextContent(absPath string) (string, bool) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", false
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", false
	}

	enc, err := ianaindex.IANA.Encoding(result.Charset)
	if err != nil || enc == nil {
		return "", false
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}

	return string(decoded), true
}

// renderPlainText strips markup from stored rich-text content, keeping line
// breaks and leaving heading case untouched.
func renderPlainText(html string) string {
	return html2text.HTML2TextWithOptions(html, html2text.WithUnixLineBreaks())
}

func plainTextByteSize(html string) int64 {
	return int64(len([]byte(renderPlainText(html))))
}
