package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/monitoring"
	"snaplearn_backend/pkg/tracing"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
)

// AIGrader 主观题评分与解题提示
type AIGrader interface {
	grading.Judge
	Hint(ctx context.Context, questionText string) (string, error)
}

// NewAIGrader 按配置选择模型服务，调用均带追踪与指标
func NewAIGrader(cfg config.AIConfig) (AIGrader, error) {
	var g AIGrader
	switch cfg.Provider {
	case "", "openai":
		g = NewOpenAIGrader(cfg)
	case "gemini":
		gem, err := NewGeminiGrader(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		g = gem
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	return &instrumentedGrader{next: g, provider: provider}, nil
}

func gradePrompt(item grading.Item, answer string) string {
	return fmt.Sprintf(`你是一名老师，请根据以下题目和参考答案，对学生的答案进行评分（满分%s分）并给出评语。
题目：%s
参考答案：%s
学生答案：%s
请输出如下格式：
分数: x.x
评语: ...`, strconv.FormatFloat(item.Score, 'f', -1, 64), item.Text, item.Reference, answer)
}

func hintPrompt(questionText string) string {
	return fmt.Sprintf("请只给出解题思路，不要直接给答案。题目：%s", questionText)
}

// ParseGradeReply 解析模型按 "分数: x / 评语: ..." 格式返回的内容，缺失分数视为 0
func ParseGradeReply(content string) grading.Judgment {
	var j grading.Judgment
	for _, line := range strings.Split(content, "\n") {
		// 兼容全角冒号
		line = strings.ReplaceAll(strings.TrimSpace(line), "：", ":")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch {
		case strings.Contains(key, "分数"):
			if s, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				j.Score = s
			}
		case strings.Contains(key, "评语"):
			j.Comment = strings.TrimSpace(value)
		}
	}
	return j
}

// OpenAIGrader 调用兼容 OpenAI chat/completions 协议的服务
type OpenAIGrader struct {
	config config.AIConfig
	client *http.Client
}

func NewOpenAIGrader(cfg config.AIConfig) *OpenAIGrader {
	return &OpenAIGrader{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *OpenAIGrader) chat(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("AI returned no choices")
}

func (s *OpenAIGrader) Judge(ctx context.Context, item grading.Item, answer string) (grading.Judgment, error) {
	content, err := s.chat(ctx, gradePrompt(item, answer))
	if err != nil {
		return grading.Judgment{}, err
	}
	return ParseGradeReply(content), nil
}

func (s *OpenAIGrader) Hint(ctx context.Context, questionText string) (string, error) {
	return s.chat(ctx, hintPrompt(questionText))
}

// GeminiGrader 使用 Google Gemini 评分
type GeminiGrader struct {
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiGrader(ctx context.Context, cfg config.AIConfig) (*GeminiGrader, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	name := cfg.Model
	if name == "" {
		name = "gemini-1.5-flash"
	}
	return &GeminiGrader{model: client.GenerativeModel(name), timeout: cfg.Timeout()}, nil
}

func (g *GeminiGrader) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return sb.String(), nil
}

func (g *GeminiGrader) Judge(ctx context.Context, item grading.Item, answer string) (grading.Judgment, error) {
	content, err := g.generate(ctx, gradePrompt(item, answer))
	if err != nil {
		return grading.Judgment{}, err
	}
	return ParseGradeReply(content), nil
}

func (g *GeminiGrader) Hint(ctx context.Context, questionText string) (string, error) {
	return g.generate(ctx, hintPrompt(questionText))
}

type instrumentedGrader struct {
	next     AIGrader
	provider string
}

func (g *instrumentedGrader) Judge(ctx context.Context, item grading.Item, answer string) (grading.Judgment, error) {
	ctx, span := tracing.StartSpan(ctx, "ai.judge",
		attribute.String("ai.provider", g.provider),
		attribute.Float64("question.score", item.Score),
	)
	start := time.Now()
	j, err := g.next.Judge(ctx, item, answer)
	monitoring.AIGradingDuration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	monitoring.AIGradingCounter.WithLabelValues(g.provider, outcome).Inc()
	tracing.EndSpan(span, err)
	return j, err
}

func (g *instrumentedGrader) Hint(ctx context.Context, questionText string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ai.hint", attribute.String("ai.provider", g.provider))
	hint, err := g.next.Hint(ctx, questionText)
	tracing.EndSpan(span, err)
	return hint, err
}
