// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// decodeBody turns a response body into text using the charset declared in
// contentType. Bodies without a declared charset are returned as-is; Lua
// strings are byte strings.
func decodeBody(url, contentType string, body []byte) (string, error) {
	if contentType == "" {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), nil //nolint:nilerr // a malformed header carries no charset
	}
	charset := strings.TrimSpace(params["charset"])
	if charset == "" {
		return string(body), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", &DecodeError{URL: url, Charset: charset, Err: err}
	}
	canonical, _ := htmlindex.Name(enc)

	if canonical == "utf-8" {
		// The UTF-8 decoder substitutes U+FFFD instead of failing.
		if !utf8.Valid(body) {
			return "", &DecodeError{URL: url, Charset: charset}
		}
		return string(body), nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", &DecodeError{URL: url, Charset: charset, Err: err}
	}
	return string(decoded), nil
}
