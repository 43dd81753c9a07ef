package mecalink

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
	"strings"
)

// TokenSource yields the bearer token of the current session, or "" when
// there is none.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client talks to the MecaLink REST API. A Client without a token source
// can only call public endpoints; use WithToken to bind it to a session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithToken returns a copy of the client that authenticates with ts.
func (c *Client) WithToken(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts

	return &cp
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func fileHeader(f formFile) textproto.MIMEHeader {
	contentType := f.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
	h.Set("Content-Type", contentType)

	return h
}

type call struct {
	method    string
	path      string
	query     url.Values
	body      any
	form      map[string]string
	files     []formFile
	multipart bool
	protected bool
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}

	return c.tokens.Token()
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case cl.multipart:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range cl.form {
			if err := w.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("w.WriteField -> %w", err)
			}
		}
		for _, f := range cl.files {
			part, err := w.CreatePart(fileHeader(f))
			if err != nil {
				return nil, fmt.Errorf("w.CreatePart -> %w", err)
			}
			if _, err = part.Write(f.data); err != nil {
				return nil, fmt.Errorf("part.Write -> %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("w.Close -> %w", err)
		}
		body = buf
		contentType = w.FormDataContentType()
	case cl.body != nil:
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal -> %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do sends the call and returns the raw body of a 2xx answer.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	if cl.protected && c.token() == "" {
		return nil, newRequestError(KindNoSession, 0, "", ErrNoSession)
	}

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, newRequestError(KindRequest, 0, "", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newRequestError(KindTransport, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newRequestError(KindTransport, resp.StatusCode, "", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		kind := KindValidation
		if resp.StatusCode >= http.StatusInternalServerError {
			kind = KindServer
		}

		return nil, newRequestError(kind, resp.StatusCode, serverMessage(raw), nil)
	}

	return raw, nil
}

// envelope is the wrapper MecaLink puts around most answers.
type envelope struct {
	Success *bool           `json:"success"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	if e.Msg != "" {
		return e.Msg
	}

	return e.Message
}

func serverMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}

	return env.message()
}

func decodeError(err error) error {
	return newRequestError(KindDecode, 0, "", err)
}

// unwrap decodes the envelope of raw into out. A success=false answer is
// turned into a validation error carrying the server message.
func unwrap(raw []byte, out any) (string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", decodeError(fmt.Errorf("json.Unmarshal envelope -> %w", err))
	}
	if env.Success != nil && !*env.Success {
		return "", newRequestError(KindValidation, 0, env.message(), nil)
	}
	if out == nil {
		return env.message(), nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return "", decodeError(fmt.Errorf("missing data"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return "", decodeError(fmt.Errorf("json.Unmarshal data -> %w", err))
	}

	return env.message(), nil
}

// unwrapLoose accepts both an enveloped and a bare answer. Advertisement
// endpoints answer both ways.
func unwrapLoose(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err == nil {
			_, hasData := probe["data"]
			_, hasSuccess := probe["success"]
			if hasData && hasSuccess {
				_, err = unwrap(trimmed, out)
				return err
			}
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return decodeError(fmt.Errorf("json.Unmarshal -> %w", err))
	}

	return nil
}
