// Package completion 封装远端对话补全调用。每次调用只请求一次并受超时约束，
// 失败以类型化错误返回，由调用方决定如何降级。
package completion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	logx "github.com/mindfulai/backend/pkg/logger"
)

// DefaultTimeout 未配置超时时使用的默认值。
const DefaultTimeout = 30 * time.Second

// Request 一次补全请求。
type Request struct {
	Messages    []*schema.Message
	MaxTokens   int
	Temperature float32
	// Schema 非空时要求后端按严格 JSON Schema 输出（后端支持时生效）。
	Schema *ResponseSchema
}

// Response 第一个生成结果。
type Response struct {
	Content string
	Message *schema.Message
}

// Options 描述 Client 背后的模型后端。
type Options struct {
	Provider string
	Model    string
	Timeout  time.Duration
}

// Client 在 eino 对话模型外加上超时控制与错误分类。
type Client struct {
	chatModel model.BaseChatModel
	provider  string
	model     string
	timeout   time.Duration
	log       zerolog.Logger
}

// NewClient 创建补全客户端
func NewClient(chatModel model.BaseChatModel, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		chatModel: chatModel,
		provider:  opts.Provider,
		model:     opts.Model,
		timeout:   timeout,
		log:       logx.Component("completion"),
	}
}

// Provider 返回后端展示名称
func (c *Client) Provider() string {
	return c.provider
}

// Model 返回模型标识
func (c *Client) Model() string {
	return c.model
}

// Complete 发送请求并返回生成文本。
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if c == nil || c.chatModel == nil {
		return nil, ErrNotConfigured
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("completion request has no messages")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := []model.Option{
		model.WithTemperature(req.Temperature),
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Schema != nil {
		opts = append(opts, WithResponseSchema(req.Schema))
	}

	start := time.Now()
	msg, err := c.chatModel.Generate(ctx, req.Messages, opts...)
	if err != nil {
		classified := classifyError(ctx, err)
		c.log.Warn().
			Err(err).
			Str("kind", Kind(classified)).
			Dur("elapsed", time.Since(start)).
			Msg("completion failed")
		return nil, classified
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		c.log.Warn().Dur("elapsed", time.Since(start)).Msg("completion returned no content")
		return nil, ErrMalformed
	}

	c.log.Debug().
		Int("length", len(msg.Content)).
		Dur("elapsed", time.Since(start)).
		Msg("completion succeeded")
	return &Response{Content: msg.Content, Message: msg}, nil
}
