package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rakibul966222/Rakib-pay/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

// Insights produces the assistant's spending-insight text for an account.
// Text generation itself happens outside this repository; this is the
// boundary to it.
type Insights interface {
	SpendingInsight(ctx context.Context, account models.Account, recent []models.Transaction) (string, error)
}

// OpenAI generates insights through the OpenAI chat API.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (a *OpenAI) SpendingInsight(ctx context.Context, account models.Account, recent []models.Transaction) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a personal finance assistant inside a wallet app. " +
					"Reply with two or three short sentences of practical insight. No markdown.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Summarize(account, recent),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("assistant returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Summarize condenses an account's recent activity into the prompt line
// sent to the model. It never includes emails or ids.
func Summarize(account models.Account, recent []models.Transaction) string {
	var sent, received decimal.Decimal
	var sentCount, receivedCount int
	for _, txn := range recent {
		if txn.FromID == account.ID {
			sent = sent.Add(txn.Amount)
			sentCount++
		} else {
			received = received.Add(txn.Amount)
			receivedCount++
		}
	}
	return fmt.Sprintf(
		"Current balance: $%s. Over the last %d transactions: sent $%s across %d transfers, received $%s across %d transfers.",
		account.Balance.StringFixed(2), len(recent),
		sent.StringFixed(2), sentCount,
		received.StringFixed(2), receivedCount,
	)
}
