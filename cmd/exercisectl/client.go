package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
	Out       io.Writer
}

func (c *client) do(method, path string, form url.Values) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return 0, nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

// call ejecuta el request y devuelve error si el status no es 2xx,
// usando el mensaje de error de la API cuando viene.
func (c *client) call(method, path string, form url.Values) ([]byte, error) {
	status, body, err := c.do(method, path, form)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		var apiErr struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Detail != "" {
				return nil, fmt.Errorf("status=%d: %s (%s)", status, apiErr.Error, apiErr.Detail)
			}
			return nil, fmt.Errorf("status=%d: %s", status, apiErr.Error)
		}
		return nil, fmt.Errorf("status=%d body=%s", status, string(body))
	}
	return body, nil
}

func (c *client) print(body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintln(c.Out, string(p))
			return
		}
	}
	fmt.Fprintln(c.Out, strings.TrimSpace(string(body)))
}
