package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordBody = "word/document.xml"

// WordDocument reads the body text of docx files. Paragraphs and explicit
// breaks become line boundaries; tables and formatting are dropped.
type WordDocument struct{}

func (WordDocument) Extract(r io.Reader) (*Document, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == wordBody {
			body = f
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: %s missing", ErrFormat, wordBody)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer rc.Close()

	text, err := bodyText(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return &Document{Lines: splitLines(text)}, nil
}

// bodyText walks the WordprocessingML token stream and emits the text runs,
// with a newline at every paragraph end and break.
func bodyText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}
