package attachment

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Пространство имён WordprocessingML
const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Основной документ внутри DOCX-архива
const documentPath = "word/document.xml"

var errNoDocument = errors.New("в архиве нет word/document.xml")

// extractDOCX извлекает сырой текст из DOCX
// Абзацы разделяются пустой строкой, w:tab — табуляция, w:br и w:cr — перевод строки
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("не DOCX-архив: %w", err)
	}

	for _, f := range archive.File {
		if f.Name != documentPath {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		return documentText(rc)
	}

	return "", errNoDocument
}

// documentText проходит по XML-токенам документа и собирает текст
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out    strings.Builder
		inText bool // Внутри w:t
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}

	return out.String(), nil
}
