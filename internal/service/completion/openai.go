package completion

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var errStreamUnsupported = errors.New("streaming is not supported")

// OpenAIChatModel 基于 OpenAI chat completions 接口实现 eino 对话模型。
type OpenAIChatModel struct {
	client openai.Client
	model  string
}

type openaiOptions struct {
	schema *ResponseSchema
}

// WithResponseSchema 要求输出符合 s 的严格 JSON。
func WithResponseSchema(s *ResponseSchema) model.Option {
	return model.WrapImplSpecificOptFn(func(o *openaiOptions) {
		o.schema = s
	})
}

// NewOpenAIChatModel 创建关闭 SDK 重试的模型，httpClient 可为 nil。
func NewOpenAIChatModel(apiKey, baseURL, modelName string, httpClient *http.Client) *OpenAIChatModel {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAIChatModel{
		client: openai.NewClient(opts...),
		model:  modelName,
	}
}

// Generate 发送一次补全请求
func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	common := model.GetCommonOptions(&model.Options{Model: &m.model}, opts...)
	specific := model.GetImplSpecificOptions(&openaiOptions{}, opts...)

	params := openai.ChatCompletionNewParams{
		Model:    *common.Model,
		Messages: toOpenAIMessages(input),
	}
	if common.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*common.MaxTokens))
	}
	if common.Temperature != nil {
		params.Temperature = openai.Float(float64(*common.Temperature))
	}
	if s := specific.schema; s != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        s.Name,
					Description: openai.String(s.Description),
					Schema:      s.Schema,
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrMalformed
	}

	return schema.AssistantMessage(resp.Choices[0].Message.Content, nil), nil
}

// Stream 未使用
func (m *OpenAIChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errStreamUnsupported
}

func toOpenAIMessages(input []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case schema.Assistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}
