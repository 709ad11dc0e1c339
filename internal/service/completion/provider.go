package completion

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/mindfulai/backend/internal/config"
)

// New 按配置的提供方创建客户端。没有可用凭证时返回 ErrNotConfigured，
// 调用方随后走本地兜底逻辑。
func New(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if !cfg.APIKeyConfigured() {
		return nil, ErrNotConfigured
	}

	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s chat model: %w", cfg.Provider, err)
	}

	return NewClient(chatModel, Options{
		Provider: cfg.ProviderName(),
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	}), nil
}

func newChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		// SDK 默认重试两次，这里只允许单次请求。
		retryTimes := 0
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:    cfg.Ark.BaseURL,
			Region:     cfg.Ark.Region,
			APIKey:     cfg.Ark.APIKey,
			AccessKey:  cfg.Ark.AccessKey,
			SecretKey:  cfg.Ark.SecretKey,
			Model:      cfg.Model,
			RetryTimes: &retryTimes,
		})
		if err != nil {
			return nil, err
		}
		return chatModel, nil

	case config.ProviderGemini:
		clientCfg := &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.Gemini.BaseURL != "" {
			clientCfg.HTTPOptions.BaseURL = cfg.Gemini.BaseURL
		}
		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			return nil, fmt.Errorf("error creating Gemini client: %w", err)
		}
		chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return chatModel, nil

	default:
		return NewOpenAIChatModel(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.Model, nil), nil
	}
}
