package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	"github.com/zhouzirui/ev-commerce/backend/internal/config"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
)

// ErrEmptyAnswer is returned when the model produced no text.
var ErrEmptyAnswer = errors.New("assistant returned an empty answer")

// Service answers free-form store questions through an LLM chain.
type Service struct {
	prompts *PromptBuilder
	chain   compose.Runnable[map[string]any, *schema.Message]
	logger  *zap.Logger
}

// NewService creates the assistant from ark configuration.
func NewService(ctx context.Context, cfg config.AIConfig, kb *intent.KnowledgeBase, vehicles catalog.Store, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, kb, vehicles, logger)
}

// NewServiceWithModel builds the chain around an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, kb *intent.KnowledgeBase, vehicles catalog.Store, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		prompts: NewPromptBuilder(DefaultTemplate(), kb, vehicles),
		chain:   runnable,
		logger:  logger,
	}, nil
}

// Answer implements the chat fallback contract.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	input := map[string]any{
		"system": s.prompts.BuildSystemPrompt(),
		"query":  question,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	answer := strings.TrimSpace(response.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	s.logger.Debug("assistant answered", zap.Int("length", len(answer)))
	return answer, nil
}
