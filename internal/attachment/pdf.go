package attachment

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDF извлекает обычный текст из PDF-документа
func extractPDF(data []byte) (text string, err error) {
	// Библиотека паникует на части повреждённых файлов
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("повреждённый PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}
