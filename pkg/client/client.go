// Package client 是作业服务的 HTTP 客户端，学习端流程通过它访问批改服务
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"snaplearn_backend/pkg/grading"
	"strconv"
	"strings"
	"time"
)

const DefaultTimeout = 15 * time.Second

// Session 显式传入每次调用，调用时读取 token
type Session struct {
	Token string
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: timeout,
		http:    hc,
	}
}

// APIError 非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus 判断 err 是否为指定状态码的 APIError
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Question struct {
	ID           uint                 `json:"id"`
	QuestionType grading.QuestionType `json:"question_type"`
	Text         string               `json:"text"`
	Options      []string             `json:"options"`
	Score        float64              `json:"score"`
}

type Homework struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Scores 返回各题分值，供百分比计算
func (h *Homework) Scores() []float64 {
	scores := make([]float64, len(h.Questions))
	for i, q := range h.Questions {
		scores[i] = q.Score
	}
	return scores
}

const StatusPending = "pending"
const StatusGraded = "graded"

type SubmitResult struct {
	Status       string   `json:"status"`
	TotalScore   *float64 `json:"total_score"`
	Explanations []string `json:"explanations"`
}

type MistakeEntry struct {
	ID              uint                 `json:"id"`
	HomeworkID      uint                 `json:"homework_id"`
	QuestionType    grading.QuestionType `json:"question_type"`
	Text            string               `json:"text"`
	Options         []string             `json:"options"`
	Score           float64              `json:"score"`
	Answer          string               `json:"answer"`
	WrongTimes      int                  `json:"wrong_times"`
	LastWrongAnswer string               `json:"last_wrong_answer"`
	Status          string               `json:"status"`
}

type Judgement struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment"`
}

type ScoreRecord struct {
	ID            uint      `json:"id"`
	HomeworkID    uint      `json:"homework_id"`
	HomeworkTitle string    `json:"homework_title"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Status        string    `json:"status"`
	TotalScore    *float64  `json:"total_score"`
	PossibleScore float64   `json:"possible_score"`
	Explanations  []string  `json:"explanations"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func (c *Client) do(ctx context.Context, s Session, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode/100 != 2 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, Session{}, http.MethodPost, "/api/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetHomework 视频没有作业时返回 nil, nil
func (c *Client) GetHomework(ctx context.Context, s Session, videoID uint) (*Homework, error) {
	var hw *Homework
	path := "/api/videos/" + strconv.FormatUint(uint64(videoID), 10) + "/homework"
	if err := c.do(ctx, s, http.MethodGet, path, nil, &hw); err != nil {
		return nil, err
	}
	return hw, nil
}

func (c *Client) Submit(ctx context.Context, s Session, videoID uint, answers []string) (*SubmitResult, error) {
	var res SubmitResult
	path := "/api/videos/" + strconv.FormatUint(uint64(videoID), 10) + "/submit_homework"
	if err := c.do(ctx, s, http.MethodPost, path, map[string]any{"answers": answers}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Mistakes(ctx context.Context, s Session) ([]MistakeEntry, error) {
	var entries []MistakeEntry
	if err := c.do(ctx, s, http.MethodGet, "/api/homework/mistakebook", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) Reconcile(ctx context.Context, s Session, questionID uint, isCorrect bool) error {
	body := map[string]any{"question_id": questionID, "is_correct": isCorrect}
	return c.do(ctx, s, http.MethodPost, "/api/homework/mistakebook/update", body, nil)
}

// Judge 由服务端判定一道错题的重做答案，主观题依赖 AI
func (c *Client) Judge(ctx context.Context, s Session, questionID uint, answer string) (*Judgement, error) {
	var res Judgement
	body := map[string]any{"question_id": questionID, "answer": answer}
	if err := c.do(ctx, s, http.MethodPost, "/api/homework/mistakebook/judge", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) MyScores(ctx context.Context, s Session) ([]ScoreRecord, error) {
	var records []ScoreRecord
	if err := c.do(ctx, s, http.MethodGet, "/api/homework/my_scores", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}
