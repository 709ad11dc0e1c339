package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
)

var (
	ErrUnauthorized  = errors.New("invalid API key")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrTimeout       = errors.New("request timeout")
	ErrMalformed     = errors.New("malformed provider response")
	ErrNotConfigured = errors.New("completion provider not configured")
)

// TransportError 鉴权、限流、超时以外的所有远端失败。
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Kind 返回用于日志的错误类别。
func Kind(err error) string {
	var transportErr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "unknown"
	}
}

// classifyError 把后端错误映射为上面的类型化错误。
func classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMalformed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		default:
			return &TransportError{Message: fmt.Sprintf("API Error: %d", apiErr.StatusCode), Err: err}
		}
	}

	// 没有类型化状态码的 SDK 只能按错误文本判断。
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "401") || strings.Contains(text, "unauthorized") || strings.Contains(text, "invalid api key"):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case strings.Contains(text, "429") || strings.Contains(text, "rate limit") || strings.Contains(text, "too many requests"):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	default:
		return &TransportError{Message: err.Error(), Err: err}
	}
}
