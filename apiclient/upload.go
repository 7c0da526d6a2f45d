package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload streams a file as a multipart POST request and decodes the JSON
// response into out. If onProgress is non-nil it is invoked with a percentage
// in 0..100, strictly non-decreasing, and is guaranteed to end at 100 on
// success before Upload returns. A non-positive size disables intermediate
// progress reporting.
func (c *Client) Upload(ctx context.Context, path, filename string, r io.Reader, size int64, onProgress func(percent int), out any) error {
	tracked := &progressReader{r: r, total: size, report: onProgress}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, tracked); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		// Unblock the writer goroutine, nothing will read the pipe.
		pr.CloseWithError(err)
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(req)

	c.logger.Debug("POST %s (upload %s, %d bytes)", path, filename, size)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if onProgress != nil {
		onProgress(100)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// progressReader reports upload progress as its wrapped reader is consumed.
// Intermediate reports are capped at 99; the final 100 is reported by Upload
// only after the server accepted the request.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.report != nil && p.total > 0 {
		p.sent += int64(n)
		percent := int(p.sent * 100 / p.total)
		if percent > 99 {
			percent = 99
		}
		if percent > p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
