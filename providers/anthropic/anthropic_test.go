package anthropic

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/garysheng/braindump/providers"
)

func newTestProvider(m *mockmessageCreator) *Provider {
	return &Provider{
		model: DefaultModel,
		newClient: func(apiKey string) messageCreator {
			return m
		},
	}
}

func textMessage(blocks ...string) *anthropic.Message {
	msg := &anthropic.Message{}
	for _, b := range blocks {
		msg.Content = append(msg.Content, anthropic.ContentBlockUnion{Type: "text", Text: b})
	}
	return msg
}

func TestProvider_Generate(t *testing.T) {
	m := newMockmessageCreator(t)
	m.EXPECT().New(mock.Anything, mock.Anything).
		Run(func(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) {
			assert.Equal(t, anthropic.Model(DefaultModel), body.Model)
			assert.Equal(t, int64(1000), body.MaxTokens)
			assert.Equal(t, anthropic.Float(0.7), body.Temperature)
			require.Len(t, body.Messages, 1)
			assert.Equal(t, anthropic.MessageParamRoleUser, body.Messages[0].Role)
		}).
		Return(textMessage("Part one. ", "Part two."), nil).Once()

	text, err := newTestProvider(m).Generate(context.Background(), providers.GenerationRequest{
		Prompt:         "Write something",
		APIKey:         "sk-ant-test",
		MaxTokens:      1000,
		Temperature:    0.7,
		HasTemperature: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Part one. Part two.", text)
}

func TestProvider_GenerateDefaults(t *testing.T) {
	m := newMockmessageCreator(t)
	m.EXPECT().New(mock.Anything, mock.Anything).
		Run(func(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) {
			assert.Equal(t, int64(4000), body.MaxTokens)
		}).
		Return(textMessage(), nil).Once()

	text, err := newTestProvider(m).Generate(context.Background(), providers.GenerationRequest{
		Prompt: "Write something",
		APIKey: "sk-ant-test",
	})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestProvider_GenerateError(t *testing.T) {
	m := newMockmessageCreator(t)
	apiErr := errors.New(`401 {"type":"error","error":{"type":"authentication_error","message":"invalid_api_key"}}`)
	m.EXPECT().New(mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	_, err := newTestProvider(m).Generate(context.Background(), providers.GenerationRequest{
		Prompt: "x",
		APIKey: "sk-ant-test",
	})
	assert.Equal(t, apiErr, err)
}

func TestProvider_GenerateMissingKey(t *testing.T) {
	_, err := newTestProvider(newMockmessageCreator(t)).Generate(context.Background(), providers.GenerationRequest{Prompt: "x"})
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}

func TestProvider_CheckKey(t *testing.T) {
	t.Run("bad prefix skips the request", func(t *testing.T) {
		p := newTestProvider(newMockmessageCreator(t))
		assert.ErrorIs(t, p.CheckKey(context.Background(), "ant-123"), ErrInvalidKeyFormat)
	})

	t.Run("one token request", func(t *testing.T) {
		m := newMockmessageCreator(t)
		m.EXPECT().New(mock.Anything, mock.Anything).
			Run(func(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) {
				assert.Equal(t, anthropic.Model(checkModel), body.Model)
				assert.Equal(t, int64(1), body.MaxTokens)
			}).
			Return(textMessage("H"), nil).Once()

		assert.NoError(t, newTestProvider(m).CheckKey(context.Background(), "sk-ant-ok"))
	})

	t.Run("rejected", func(t *testing.T) {
		m := newMockmessageCreator(t)
		m.EXPECT().New(mock.Anything, mock.Anything).Return(nil, errors.New("401")).Once()

		assert.Error(t, newTestProvider(m).CheckKey(context.Background(), "sk-ant-bad"))
	})
}
