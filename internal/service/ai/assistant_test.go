package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
)

type stubChatModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(m.reply, nil)}), nil
}

func (m *stubChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func TestBuildSystemPromptIncludesKnowledgeAndCatalog(t *testing.T) {
	builder := NewPromptBuilder(DefaultTemplate(), intent.MustDefault(), catalog.NewMemoryStore(catalog.Seed()))
	prompt := builder.BuildSystemPrompt()

	assert.True(t, strings.HasPrefix(prompt, "You are the customer support assistant"))
	assert.Contains(t, prompt, "Rules:\n- Prefer the store facts")
	assert.Contains(t, prompt, "Q: what is the range of electric vehicles\n")
	assert.Contains(t, prompt, "- Ford Mustang Mach-E (suv): $48000, 300 km range, 68 kWh battery, from $905.82/month over 60 months")
	assert.NotContains(t, prompt, "\n\n\n")
}

func TestBuildSystemPromptSkipsUnavailableVehicles(t *testing.T) {
	items := catalog.Seed()
	items[0].Available = false
	builder := NewPromptBuilder(DefaultTemplate(), nil, catalog.NewMemoryStore(items))
	prompt := builder.BuildSystemPrompt()

	assert.NotContains(t, prompt, "Tesla Model 3")
	assert.Contains(t, prompt, "Tesla Model Y")
	assert.NotContains(t, prompt, "Store FAQ")
}

func TestAnswerInvokesChain(t *testing.T) {
	stub := &stubChatModel{reply: "  Eight years on the battery.  "}
	svc, err := NewServiceWithModel(context.Background(), stub, intent.MustDefault(), nil, nil)
	require.NoError(t, err)

	answer, err := svc.Answer(context.Background(), "what is the warranty")
	require.NoError(t, err)
	assert.Equal(t, "Eight years on the battery.", answer)

	require.Len(t, stub.received, 2)
	assert.Equal(t, schema.System, stub.received[0].Role)
	assert.Equal(t, schema.User, stub.received[1].Role)
	assert.Equal(t, "what is the warranty", stub.received[1].Content)
}

func TestAnswerPropagatesFailures(t *testing.T) {
	stub := &stubChatModel{err: errors.New("upstream down")}
	svc, err := NewServiceWithModel(context.Background(), stub, intent.MustDefault(), nil, nil)
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")

	stub.err = nil
	stub.reply = "   "
	_, err = svc.Answer(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}
