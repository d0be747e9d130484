package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

// File is an uploaded file forwarded to the backend.
type File struct {
	Name        string
	ContentType string
	Data        io.Reader
}

// NewReport is the multipart payload of POST /reports.
type NewReport struct {
	Title       string
	Description string
	Tags        []string
	PDF         File
	Preview     File
}

// ProgressFunc receives the number of body bytes handed to the transport so far.
type ProgressFunc func(sent, total int64)

// SearchQuery encodes p the way the backend search endpoint expects it.
func SearchQuery(p model.SearchParams) url.Values {
	page := p.Page
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", p.Keywords)
	q.Set("currentPage", strconv.Itoa(page))
	if p.Sector != "" {
		q.Set("sector", p.Sector)
	}
	if p.FromDate != "" {
		q.Set("fromDate", p.FromDate)
	}
	if p.ToDate != "" {
		q.Set("toDate", p.ToDate)
	}
	for _, tag := range p.Tags {
		q.Add("tags[]", tag)
	}
	return q
}

// Search runs one page of a report search.
func (c *Client) Search(ctx context.Context, p model.SearchParams) (*model.SearchResult, error) {
	var result model.SearchResult
	path := "/search?" + SearchQuery(p).Encode()
	if err := c.doJSON(ctx, http.MethodGet, "/search", path, nil, &result); err != nil {
		return nil, err
	}
	if result.Reports == nil {
		result.Reports = []model.Report{}
	}
	return &result, nil
}

func (c *Client) ListReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := c.doJSON(ctx, http.MethodGet, "/reports", "/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) GetReport(ctx context.Context, id int64) (*model.Report, error) {
	var report model.Report
	if err := c.doJSON(ctx, http.MethodGet, "/reports/:id", fmt.Sprintf("/reports/%d", id), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) UpdateReport(ctx context.Context, id int64, in model.UpdateReport) (*model.Report, error) {
	var report model.Report
	if err := c.doJSON(ctx, http.MethodPut, "/reports/:id", fmt.Sprintf("/reports/%d", id), in, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ValidateReport sets the validation flag and returns the updated report.
func (c *Client) ValidateReport(ctx context.Context, id int64, validated bool) (*model.Report, error) {
	body := map[string]bool{"validated": validated}
	var report model.Report
	if err := c.doJSON(ctx, http.MethodPut, "/reports/:id/validate", fmt.Sprintf("/reports/%d/validate", id), body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/reports/:id", fmt.Sprintf("/reports/%d", id), nil, nil)
}

// DownloadReport streams the report PDF. The caller closes the body.
func (c *Client) DownloadReport(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/reports/%d/download", c.baseURL, id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.send(req, "/reports/:id/download")
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return resp.Body, contentType, nil
}

// CreateReport uploads a new report. progress, when set, follows the request
// body as the transport consumes it.
func (c *Client) CreateReport(ctx context.Context, in NewReport, progress ProgressFunc) (*model.Report, error) {
	body, contentType, err := encodeReport(in)
	if err != nil {
		return nil, err
	}

	total := int64(body.Len())
	var reader io.Reader = bytes.NewReader(body.Bytes())
	if progress != nil {
		reader = &progressReader{r: reader, total: total, fn: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports", reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)

	resp, err := c.send(req, "/reports")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var report model.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode /reports response: %w", err)
	}
	return &report, nil
}

func encodeReport(in NewReport) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", in.Title},
		{"description", in.Description},
		{"validated", "false"},
	}
	for i, tag := range in.Tags {
		fields = append(fields, [2]string{fmt.Sprintf("tags[%d]", i), tag})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if err := writeFile(w, "preview", in.Preview); err != nil {
		return nil, "", err
	}
	if err := writeFile(w, "url", in.PDF); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, f File) error {
	if f.Data == nil {
		return fmt.Errorf("missing %s file", field)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, f.Data); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}
	return nil
}

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
