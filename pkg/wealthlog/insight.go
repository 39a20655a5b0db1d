package wealthlog

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultInsightBaseURL    = "https://api.openai.com/v1"
	defaultGeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	insightRequestTimeout    = 5 * time.Minute
	maxInsightResponseBytes  = 2 << 20
	insightMaxOutputTokens   = 32768
	defaultInsightRiskLabel  = "unknown"
	defaultInsightDisclaimer = "本分析仅供参考，不构成投资建议。"
)

const portfolioInsightSystemPrompt = `你是一个专业的个人投资记账助手，擅长解读固定收益产品、存款、基金和股票的组合表现。
用户会提供持仓快照和组合统计（本金、累计收益、年化收益率、综合收益率等），请基于这些数据输出清晰、可执行的组合点评。
必须输出 JSON 对象，不要输出 Markdown，不要输出额外文字。
JSON 字段必须包含：
- summary: string（组合整体表现总结）
- risk_level: string
- suggestions: [{topic, detail, priority}]
- disclaimer: string
要求：
- suggestions 至少 2 条，覆盖收益结构与到期安排。
- 禁止承诺收益，必须体现风险提示。`

// PortfolioInsightRequest defines inputs for the AI portfolio review.
type PortfolioInsightRequest struct {
	BaseURL     string
	APIKey      string
	Model       string
	Currency    string
	RiskProfile string
	Tone        string
}

// InsightSuggestion contains one actionable suggestion.
type InsightSuggestion struct {
	Topic    string `json:"topic"`
	Detail   string `json:"detail"`
	Priority string `json:"priority,omitempty"`
}

// UnmarshalJSON tolerates models returning priority as a number.
func (s *InsightSuggestion) UnmarshalJSON(data []byte) error {
	var raw struct {
		Topic    string `json:"topic"`
		Detail   string `json:"detail"`
		Priority any    `json:"priority"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Topic = raw.Topic
	s.Detail = raw.Detail
	s.Priority = anyToString(raw.Priority)
	return nil
}

func anyToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// PortfolioInsightResult is the structured review returned to clients.
type PortfolioInsightResult struct {
	GeneratedAt string              `json:"generated_at"`
	Model       string              `json:"model"`
	Currency    string              `json:"currency,omitempty"`
	Summary     string              `json:"summary"`
	RiskLevel   string              `json:"risk_level"`
	Suggestions []InsightSuggestion `json:"suggestions"`
	Disclaimer  string              `json:"disclaimer"`
}

type insightHoldingItem struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Behavior     string   `json:"behavior"`
	Principal    float64  `json:"principal"`
	TotalReturn  float64  `json:"total_return"`
	AnnualYield  *float64 `json:"annual_yield,omitempty"`
	HoldingDays  int      `json:"holding_days"`
	DaysToMature *int     `json:"days_to_maturity,omitempty"`
	Completed    bool     `json:"completed"`
}

type insightCurrencySnapshot struct {
	Currency           string               `json:"currency"`
	TotalInvested      float64              `json:"total_invested"`
	ActivePrincipal    float64              `json:"active_principal"`
	ProjectedProfit    float64              `json:"projected_profit"`
	ComprehensiveYield float64              `json:"comprehensive_yield"`
	Holdings           []insightHoldingItem `json:"holdings"`
}

type insightPromptInput struct {
	RiskProfile string                    `json:"risk_profile"`
	Tone        string                    `json:"tone"`
	Snapshots   []insightCurrencySnapshot `json:"snapshots"`
}

type insightModelResponse struct {
	Summary     string              `json:"summary"`
	RiskLevel   string              `json:"risk_level"`
	Suggestions []InsightSuggestion `json:"suggestions"`
	Disclaimer  string              `json:"disclaimer"`
}

type insightCompletionRequest struct {
	EndpointURL  string
	APIKey       string
	Model        string
	SystemPrompt string
	UserPrompt   string
}

type insightCompletionResult struct {
	Model   string
	Content string
}

// Swappable for tests; no test should hit the wire.
var insightChatCompletion = requestInsightChatCompletion
var insightGeminiCompletion = requestInsightByGeminiNative

// PortfolioInsight generates an AI review of the current portfolio.
func (c *Core) PortfolioInsight(req PortfolioInsightRequest) (*PortfolioInsightResult, error) {
	normalized, err := normalizeInsightRequest(req)
	if err != nil {
		return nil, err
	}

	input, err := c.buildInsightPromptInput(normalized)
	if err != nil {
		return nil, err
	}
	userPrompt, err := buildInsightUserPrompt(input)
	if err != nil {
		return nil, err
	}
	endpointURL, err := buildInsightCompletionsEndpoint(normalized.BaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), insightRequestTimeout)
	defer cancel()

	completion := insightCompletionRequest{
		EndpointURL:  endpointURL,
		APIKey:       normalized.APIKey,
		Model:        normalized.Model,
		SystemPrompt: portfolioInsightSystemPrompt,
		UserPrompt:   userPrompt,
	}

	var result insightCompletionResult
	if isGeminiRequest(endpointURL, normalized.Model) {
		result, err = insightGeminiCompletion(ctx, completion)
	} else {
		result, err = insightChatCompletion(ctx, completion)
	}
	if err != nil {
		return nil, err
	}

	parsed, err := parseInsightResponse(result.Content)
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(result.Model)
	if model == "" {
		model = normalized.Model
	}
	riskLevel := strings.TrimSpace(parsed.RiskLevel)
	if riskLevel == "" {
		riskLevel = defaultInsightRiskLabel
	}
	disclaimer := strings.TrimSpace(parsed.Disclaimer)
	if disclaimer == "" {
		disclaimer = defaultInsightDisclaimer
	}
	suggestions := parsed.Suggestions
	if suggestions == nil {
		suggestions = []InsightSuggestion{}
	}

	return &PortfolioInsightResult{
		GeneratedAt: NowInShanghai().Format(time.RFC3339),
		Model:       model,
		Currency:    normalized.Currency,
		Summary:     strings.TrimSpace(parsed.Summary),
		RiskLevel:   riskLevel,
		Suggestions: suggestions,
		Disclaimer:  disclaimer,
	}, nil
}

func normalizeInsightRequest(req PortfolioInsightRequest) (PortfolioInsightRequest, error) {
	normalized := req
	normalized.APIKey = strings.TrimSpace(req.APIKey)
	if normalized.APIKey == "" {
		return PortfolioInsightRequest{}, NewError(ErrCodeInvalidInput, "api_key is required")
	}
	normalized.Model = strings.TrimSpace(req.Model)
	if normalized.Model == "" {
		return PortfolioInsightRequest{}, NewError(ErrCodeInvalidInput, "model is required")
	}
	currency := normalizeCurrency(req.Currency)
	if currency != "" && !isValidCurrency(currency) {
		return PortfolioInsightRequest{}, NewError(ErrCodeValidation, fmt.Sprintf("invalid currency: %s", req.Currency))
	}
	normalized.Currency = currency
	normalized.RiskProfile = normalizeInsightEnum(req.RiskProfile, "balanced")
	normalized.Tone = normalizeInsightEnum(req.Tone, "balanced")
	return normalized, nil
}

func normalizeInsightEnum(raw, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "conservative", "balanced", "aggressive":
		return normalized
	}
	return fallback
}

func (c *Core) buildInsightPromptInput(req PortfolioInsightRequest) (*insightPromptInput, error) {
	withMetrics, err := c.ListHoldingsWithMetrics()
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	if len(withMetrics) == 0 {
		return nil, NewError(ErrCodeNotFound, "no holdings found")
	}
	stats, err := c.PortfolioStats()
	if err != nil {
		return nil, fmt.Errorf("load portfolio stats: %w", err)
	}

	byCurrency := map[string][]insightHoldingItem{}
	for _, hm := range withMetrics {
		h := hm.Holding
		if req.Currency != "" && h.Currency != req.Currency {
			continue
		}
		byCurrency[h.Currency] = append(byCurrency[h.Currency], insightHoldingItem{
			Name:         h.Name,
			Category:     h.Category,
			Behavior:     h.Behavior,
			Principal:    h.Principal,
			TotalReturn:  hm.Metrics.TotalReturn,
			AnnualYield:  hm.Metrics.AnnualYield,
			HoldingDays:  hm.Metrics.HoldingDays,
			DaysToMature: hm.Metrics.DaysToMaturity,
			Completed:    hm.Metrics.IsCompleted,
		})
	}
	if len(byCurrency) == 0 {
		return nil, NewError(ErrCodeNotFound, fmt.Sprintf("no holdings found for currency: %s", req.Currency))
	}

	currencies := make([]string, 0, len(byCurrency))
	for curr := range byCurrency {
		currencies = append(currencies, curr)
	}
	sort.Strings(currencies)

	snapshots := make([]insightCurrencySnapshot, 0, len(currencies))
	for _, curr := range currencies {
		s := stats[curr]
		snapshots = append(snapshots, insightCurrencySnapshot{
			Currency:           curr,
			TotalInvested:      s.TotalInvested,
			ActivePrincipal:    s.ActivePrincipal,
			ProjectedProfit:    s.ProjectedProfit,
			ComprehensiveYield: s.ComprehensiveYield,
			Holdings:           byCurrency[curr],
		})
	}

	return &insightPromptInput{
		RiskProfile: req.RiskProfile,
		Tone:        req.Tone,
		Snapshots:   snapshots,
	}, nil
}

func buildInsightUserPrompt(input *insightPromptInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal insight prompt input: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("请基于以下组合快照完成点评：\n")
	sb.WriteString(string(payload))
	sb.WriteString("\n\n输出要求：\n")
	sb.WriteString("1) 必须是 JSON 对象。\n")
	sb.WriteString("2) suggestions 需覆盖：到期再投资安排、收益率结构、币种集中度。\n")
	sb.WriteString("3) 每条建议必须给出 topic 和 detail。")
	return sb.String(), nil
}

func buildInsightCompletionsEndpoint(baseURL string) (string, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultInsightBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	trimmed = strings.TrimRight(trimmed, "/")
	lower := strings.ToLower(trimmed)

	endpoint := ""
	switch {
	case strings.HasSuffix(lower, "/chat/completions"):
		endpoint = trimmed
	case strings.HasSuffix(lower, "/v1"):
		endpoint = trimmed + "/chat/completions"
	default:
		endpoint = trimmed + "/v1/chat/completions"
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid base_url scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid base_url host")
	}
	return endpoint, nil
}

func isGeminiRequest(endpointURL, model string) bool {
	modelLower := strings.ToLower(strings.TrimSpace(model))
	if strings.HasPrefix(modelLower, "gemini") {
		return true
	}
	endpointLower := strings.ToLower(strings.TrimSpace(endpointURL))
	return strings.Contains(endpointLower, "generativelanguage.googleapis.com")
}

type chatCompletionsPayload struct {
	Model    string               `json:"model"`
	Messages []chatCompletionsMsg `json:"messages"`
	Format   *chatCompletionsJSON `json:"response_format,omitempty"`
}

type chatCompletionsMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsJSON struct {
	Type string `json:"type"`
}

type chatCompletionsResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func requestInsightChatCompletion(ctx context.Context, req insightCompletionRequest) (insightCompletionResult, error) {
	payload := chatCompletionsPayload{
		Model: req.Model,
		Messages: []chatCompletionsMsg{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Format: &chatCompletionsJSON{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return insightCompletionResult{}, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return insightCompletionResult{}, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return insightCompletionResult{}, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxInsightResponseBytes))
	if err != nil {
		return insightCompletionResult{}, fmt.Errorf("read completion response: %w", err)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return insightCompletionResult{}, fmt.Errorf("decode completion response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		message := ""
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return insightCompletionResult{}, fmt.Errorf("completion status %d: %s", resp.StatusCode, message)
	}
	if len(parsed.Choices) == 0 {
		return insightCompletionResult{}, fmt.Errorf("ai response has no choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return insightCompletionResult{}, fmt.Errorf("ai response content is empty")
	}
	return insightCompletionResult{Model: parsed.Model, Content: content}, nil
}

func requestInsightByGeminiNative(ctx context.Context, req insightCompletionRequest) (insightCompletionResult, error) {
	clientConfig, err := buildGeminiClientConfig(req.EndpointURL, req.APIKey)
	if err != nil {
		return insightCompletionResult{}, err
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return insightCompletionResult{}, fmt.Errorf("create gemini client failed: %w", err)
	}

	requestConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  insightMaxOutputTokens,
		ResponseMIMEType: "application/json",
	}
	response, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserPrompt), requestConfig)
	if err != nil {
		return insightCompletionResult{}, fmt.Errorf("gemini generate content failed: %w", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return insightCompletionResult{}, fmt.Errorf("ai response content is empty")
	}
	model := strings.TrimSpace(response.ModelVersion)
	if model == "" {
		model = req.Model
	}
	return insightCompletionResult{Model: model, Content: content}, nil
}

func buildGeminiClientConfig(endpoint, apiKey string) (*genai.ClientConfig, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" || !strings.Contains(strings.ToLower(trimmed), "generativelanguage.googleapis.com") {
		trimmed = defaultGeminiBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid gemini endpoint: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid gemini endpoint host")
	}
	return &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    fmt.Sprintf("%s://%s/", parsed.Scheme, parsed.Host),
			APIVersion: "v1beta",
		},
	}, nil
}

// parseInsightResponse decodes the model's JSON, stripping Markdown code
// fences some models insist on adding.
func parseInsightResponse(content string) (*insightModelResponse, error) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	var parsed insightModelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("decode ai response: %w", err)
	}
	return &parsed, nil
}

// GetInsightSettings returns persisted insight settings (API key
// excluded; keys never touch the database).
func (c *Core) GetInsightSettings() (InsightSettings, error) {
	settings := defaultInsightSettings()
	err := c.db.QueryRow(`
		SELECT provider, base_url, model, risk_profile, tone
		FROM insight_settings
		WHERE id = 1
	`).Scan(&settings.Provider, &settings.BaseURL, &settings.Model, &settings.RiskProfile, &settings.Tone)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return InsightSettings{}, err
	}
	return normalizeInsightSettings(settings), nil
}

// SetInsightSettings persists insight settings.
func (c *Core) SetInsightSettings(settings InsightSettings) (InsightSettings, error) {
	normalized := normalizeInsightSettings(settings)
	_, err := c.db.Exec(`
		INSERT INTO insight_settings (id, provider, base_url, model, risk_profile, tone, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			provider = excluded.provider,
			base_url = excluded.base_url,
			model = excluded.model,
			risk_profile = excluded.risk_profile,
			tone = excluded.tone,
			updated_at = CURRENT_TIMESTAMP
	`, normalized.Provider, normalized.BaseURL, normalized.Model, normalized.RiskProfile, normalized.Tone)
	if err != nil {
		return InsightSettings{}, err
	}
	return normalized, nil
}

func defaultInsightSettings() InsightSettings {
	return InsightSettings{
		Provider:    "openai",
		BaseURL:     defaultInsightBaseURL,
		Model:       "",
		RiskProfile: "balanced",
		Tone:        "balanced",
	}
}

func normalizeInsightSettings(settings InsightSettings) InsightSettings {
	normalized := settings
	normalized.Provider = strings.ToLower(strings.TrimSpace(normalized.Provider))
	if normalized.Provider != "gemini" {
		normalized.Provider = "openai"
	}
	normalized.BaseURL = strings.TrimRight(strings.TrimSpace(normalized.BaseURL), "/")
	if normalized.BaseURL == "" {
		normalized.BaseURL = defaultInsightBaseURL
		if normalized.Provider == "gemini" {
			normalized.BaseURL = defaultGeminiBaseURL
		}
	}
	normalized.Model = strings.TrimSpace(normalized.Model)
	normalized.RiskProfile = normalizeInsightEnum(normalized.RiskProfile, "balanced")
	normalized.Tone = normalizeInsightEnum(normalized.Tone, "balanced")
	return normalized
}
