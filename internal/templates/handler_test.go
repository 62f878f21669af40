package templates_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"formfill-backend/internal/bootstrap"
	"formfill-backend/internal/shared/config"
)

func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		PublicBaseURL:   "http://localhost:8080",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func buildFormPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 5 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (EmployeeName) /Rect [72 700 300 720] >>",
		"<< /Fields [4 0 R] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for i := range objects {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i+1])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, file []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(file); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestTemplateUploadListAndDetail(t *testing.T) {
	router := buildTestRouter(t)

	body, contentType := multipartUpload(t, map[string]string{
		"name":        "Paystub",
		"type":        "paystub",
		"description": "Monthly paystub",
		"priceCents":  "750",
	}, "paystub.pdf", buildFormPDF())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		TemplateID string `json:"templateId"`
		PriceCents int64  `json:"priceCents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.PriceCents != 750 {
		t.Fatalf("expected priceCents 750, got %d", created.PriceCents)
	}

	// Listing filters by type.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates?type=paystub", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var list struct {
		Templates []struct {
			TemplateID string `json:"templateId"`
			Name       string `json:"name"`
		} `json:"templates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Templates) != 1 || list.Templates[0].Name != "Paystub" {
		t.Fatalf("unexpected listing: %+v", list.Templates)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates?type=w2", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode filtered list: %v", err)
	}
	if len(list.Templates) != 0 {
		t.Fatalf("expected empty w2 listing, got %+v", list.Templates)
	}

	// Detail includes the declared form fields.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates/"+created.TemplateID, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", resp.Code)
	}
	var detail struct {
		TemplateID string `json:"templateId"`
		Fields     []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Fields) != 1 || detail.Fields[0].Name != "EmployeeName" || detail.Fields[0].Type != "Tx" {
		t.Fatalf("unexpected fields: %+v", detail.Fields)
	}
}

func TestTemplateUploadRejectsInvalidFiles(t *testing.T) {
	router := buildTestRouter(t)

	// Not a PDF at all.
	body, contentType := multipartUpload(t, map[string]string{"name": "Bad"}, "bad.pdf", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("non-PDF upload: expected 400, got %d", resp.Code)
	}

	// Missing name.
	body, contentType = multipartUpload(t, nil, "paystub.pdf", buildFormPDF())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing name: expected 400, got %d", resp.Code)
	}

	// Unknown template type.
	body, contentType = multipartUpload(t, map[string]string{"name": "X", "type": "contract"}, "x.pdf", buildFormPDF())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: expected 400, got %d", resp.Code)
	}
}

func TestTemplateNotFound(t *testing.T) {
	router := buildTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/00000000-0000-0000-0000-000000000000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
