package smtpgw

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// extractTextContent pulls the analyzable text out of a mail message.
// Multipart messages are walked recursively and all text/plain parts are
// concatenated; everything else is skipped.
func extractTextContent(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	var text bytes.Buffer
	collectTextParts(msg.Body, boundary, &text, 0)

	if text.Len() == 0 {
		return "[No text content found in multipart message]", nil
	}
	return text.String(), nil
}

// collectTextParts walks a multipart body, descending into nested
// multiparts up to a fixed depth.
func collectTextParts(r io.Reader, boundary string, out *bytes.Buffer, depth int) {
	if depth > 4 {
		return
	}

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			return
		}

		partType, partParams, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			partType = "text/plain"
		}

		switch {
		case strings.HasPrefix(partType, "multipart/"):
			if nested, ok := partParams["boundary"]; ok {
				collectTextParts(part, nested, out, depth+1)
			}
		case strings.HasPrefix(partType, "text/plain"):
			if data, err := io.ReadAll(decodePartBody(part)); err == nil {
				out.Write(data)
				out.WriteString("\n")
			}
		}
	}
}

// decodePartBody handles the common transfer encodings and charsets so the
// analyzer sees plain UTF-8.
func decodePartBody(part *multipart.Part) io.Reader {
	var r io.Reader = part

	// quoted-printable is decoded by multipart.Part itself
	if strings.EqualFold(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding")), "base64") {
		r = base64.NewDecoder(base64.StdEncoding, r)
	}

	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
	if err == nil {
		if cs, ok := params["charset"]; ok {
			if dec := charsetReader(cs, r); dec != nil {
				return dec
			}
		}
	}
	return r
}

// charsetReader converts a known IANA charset to UTF-8; nil means pass
// the bytes through unchanged.
func charsetReader(charset string, r io.Reader) io.Reader {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return nil
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return nil
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// decodeEncodedHeader decodes RFC 2047 encoded-words in a header value
func decodeEncodedHeader(value string) (string, error) {
	dec := mime.WordDecoder{
		CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
			if r := charsetReader(charset, input); r != nil {
				return r, nil
			}
			return input, nil
		},
	}
	return dec.DecodeHeader(value)
}
