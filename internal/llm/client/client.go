// Package client adapts eino chat models to the documentation generator
// contract: one blocking call from structured project text plus heading
// hints to markdown document text. Provider selection (gemini, openai,
// anthropic) happens at construction; the pipeline only ever sees the
// Generator.
package client

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const promptFile = "prompts/doc_prompt.txt"

const systemPrompt = "You are a documentation assistant. Respond with markdown only."

// Default model names per provider, overridable through configuration.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-5-mini"
	DefaultClaudeModel = "claude-sonnet-4-20250514"
)

// Generator produces document text through a single chat-model call. It
// performs no retries and applies no timeout of its own; callers bound the
// call through ctx if they need to.
type Generator struct {
	chatModel model.BaseChatModel
	provider  string
}

// NewGeminiGenerator builds a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*Generator, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: cli,
		Model:  modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return &Generator{chatModel: cm, provider: "gemini"}, nil
}

// NewOpenAIGenerator builds a Generator backed by the OpenAI API.
func NewOpenAIGenerator(ctx context.Context, apiKey, modelName string) (*Generator, error) {
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &Generator{chatModel: cm, provider: "openai"}, nil
}

// NewClaudeGenerator builds a Generator backed by the Anthropic API.
func NewClaudeGenerator(ctx context.Context, apiKey, modelName string) (*Generator, error) {
	if modelName == "" {
		modelName = DefaultClaudeModel
	}
	cm, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: 8192,
	})
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return &Generator{chatModel: cm, provider: "claude"}, nil
}

// Generate renders the prompt template and invokes the chat model once.
func (g *Generator) Generate(ctx context.Context, projectText string, fullHeadings, selectedHeadings []string) (string, error) {
	prompt, err := renderPrompt(projectText, fullHeadings, selectedHeadings)
	if err != nil {
		return "", err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}

	res, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		log.Printf("llm: %s generation failed: %v", g.provider, err)
		return "", fmt.Errorf("generate documentation (%s): %w", g.provider, err)
	}
	return res.Content, nil
}

// renderPrompt substitutes the template variables of the embedded prompt.
func renderPrompt(projectText string, fullHeadings, selectedHeadings []string) (string, error) {
	raw, err := embeddedPrompts.ReadFile(promptFile)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	replacer := strings.NewReplacer(
		"{{cleaned_pm_data}}", projectText,
		"{{pdf_headings}}", headingLines(fullHeadings),
		"{{selected_headings}}", headingLines(selectedHeadings),
	)
	return replacer.Replace(string(raw)), nil
}

func headingLines(headings []string) string {
	if len(headings) == 0 {
		return "(none provided)"
	}
	return "- " + strings.Join(headings, "\n- ")
}
