package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"

	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/models"
)

const indent = "    "

// Encode writes r as 4-space indented JSON. Markup characters stay literal
// and anything outside ASCII is written as a \u escape, so the file is
// plain ASCII.
func Encode(w io.Writer, r models.Report) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(r); err != nil {
		return errors.Internal("encoding report", err)
	}
	data := escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	if _, err := w.Write(data); err != nil {
		return errors.Internal("writing report", err)
	}
	return nil
}

// escapeNonASCII rewrites every non-ASCII rune as \uXXXX, using a
// surrogate pair above the BMP. Encoded JSON only carries such runes
// inside strings.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = fmt.Appendf(out, `\u%04x\u%04x`, r1, r2)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}

// Write stores the report at path. The JSON goes to a temporary file next
// to path first, so path is either fully written or left untouched.
func Write(path string, r models.Report) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Internal("creating report file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Encode(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Internal("closing report file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return errors.Internal("setting report permissions", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Internal("moving report into place", err)
	}
	return nil
}
