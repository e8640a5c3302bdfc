package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // 为空时按 Timeout 新建
	Logger     *zap.Logger
	Metrics    *Metrics
}

// Client 后端 REST 资源客户端；无状态，token 由调用方每次传入
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
	m    *Metrics
}

func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	l := o.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(o.BaseURL, "/"),
		hc:   hc,
		log:  l.Named("backend"),
		m:    o.Metrics,
	}
}

func (c *Client) BaseURL() string { return c.base }

type call struct {
	op       string
	method   string
	path     string
	token    string // 空则不带 Authorization
	body     any
	fallback string // 非 2xx 且响应无消息时使用
}

// do 发送请求；2xx 时把 JSON 响应解码到 out（非 JSON 视为空），否则返回 *Error
func (c *Client) do(ctx context.Context, r call, out any) (err error) {
	started := time.Now()
	defer func() { c.m.observe(r.op, started, err) }()

	var rd io.Reader
	if r.body != nil {
		b, mErr := json.Marshal(r.body)
		if mErr != nil {
			return fmt.Errorf("%s: encode body: %w", r.op, mErr)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.base+r.path, rd)
	if err != nil {
		return fmt.Errorf("%s: %w", r.op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("backend unreachable", zap.String("op", r.op), zap.String("path", r.path), zap.Error(err))
		return networkError(r.op, err)
	}
	defer resp.Body.Close()

	// 多读一个字节用于判断是否超限；截断的成功响应不能当成空集合
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return networkError(r.op, err)
	}
	tooLarge := int64(len(raw)) > maxBodyBytes
	if tooLarge {
		raw = raw[:maxBodyBytes]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := httpError(r.op, resp.StatusCode, raw, r.fallback)
		c.log.Info("backend rejected",
			zap.String("op", r.op),
			zap.Int("status", e.Status),
			zap.String("code", e.Code),
			zap.String("msg", e.Message),
		)
		return e
	}

	if tooLarge {
		c.log.Warn("backend payload too large", zap.String("op", r.op), zap.Int64("limit", maxBodyBytes))
		return &Error{Op: r.op, Kind: KindDecode, Status: resp.StatusCode, Message: msgTooLarge}
	}
	raw = bytes.TrimSpace(raw)
	if out == nil || len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("backend payload mismatch", zap.String("op", r.op), zap.Error(err))
		return &Error{Op: r.op, Kind: KindDecode, Status: resp.StatusCode, Message: "Unexpected response from server", Err: err}
	}
	return nil
}

func networkError(op string, err error) *Error {
	msg := msgNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		msg = msgTimeout
	}
	return &Error{Op: op, Kind: KindNetwork, Message: msg, Err: err}
}

// errorBody 兼容 {message} / ProblemDetails {title, detail} / {error}
type errorBody struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func httpError(op string, status int, raw []byte, fallback string) *Error {
	e := &Error{Op: op, Kind: KindHTTP, Status: status}
	text := strings.TrimSpace(string(raw))
	var body errorBody
	if text != "" && json.Valid(raw) {
		_ = json.Unmarshal(raw, &body)
		for _, s := range []string{body.Message, body.Detail, body.Title, body.Error} {
			if s = strings.TrimSpace(s); s != "" {
				e.Message = s
				break
			}
		}
	} else if text != "" {
		e.Message = text
	}
	e.Code = strings.ToUpper(strings.TrimSpace(body.Code))
	if e.Message == "" {
		e.Message = fallback
	}
	e.Message = friendly(e.Code, e.Message)
	return e
}

// entityOr 响应体是带 id 的对象时直接解码，否则（空/纯文本/消息体）调用 refetch 读取最新值
func entityOr[T any](raw json.RawMessage, op string, refetch func() (T, error)) (T, error) {
	var probe struct {
		ID *json.Number `json:"id"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &probe) != nil || probe.ID == nil {
		return refetch()
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{Op: op, Kind: KindDecode, Status: http.StatusOK, Message: "Unexpected response from server", Err: err}
	}
	return out, nil
}
