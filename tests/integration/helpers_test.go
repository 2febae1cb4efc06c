package integration

import (
	"bytes"
	"mime/multipart"
	"testing"
)

// createPNGFileHeader builds a real multipart.FileHeader by writing and
// re-parsing a form, so the header can actually be opened by the service
func createPNGFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}
	return form.File["photo"][0]
}
