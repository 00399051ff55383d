// Package assistant предоставляет клиент внешнего сервиса генерации текста.
// Сервис необязателен: его недоступность никогда не влияет на операции
// журнала заказов и кассовых смен.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client инкапсулирует HTTP-взаимодействие с сервисом генерации текста.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// SalesSummary — сводка продаж, передаваемая ассистенту. Только чтение:
// ассистент никогда не получает доступ к изменению данных.
type SalesSummary struct {
	OrderCount   int               `json:"order_count"`
	TotalRevenue string            `json:"total_revenue"`
	CashRevenue  string            `json:"cash_revenue"`
	CardRevenue  string            `json:"card_revenue"`
	ItemsSold    map[string]int    `json:"items_sold"`
	Currency     string            `json:"currency,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

type insightResponse struct {
	Text string `json:"text"`
}

// NewClient создаёт клиент сервиса генерации текста по указанному адресу.
func NewClient(baseURL string) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.RetryWaitMin = 500 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.HTTPClient.Timeout = 15 * time.Second
	httpClient.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GenerateInsight отправляет сводку продаж и возвращает сгенерированный текст.
func (c *Client) GenerateInsight(ctx context.Context, summary SalesSummary) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", fmt.Errorf("assistant client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	body, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, base+"/api/insight", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result insightResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return result.Text, nil
}
