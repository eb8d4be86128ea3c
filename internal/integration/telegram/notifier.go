// Package telegram sends threshold alerts for accepted samples to a Telegram chat
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/abelzeko/water-samples/internal/entities"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is told about every accepted sample that breaches a limit
type Notifier interface {
	NotifyExceedance(ctx context.Context, rec entities.SampleRecord, breaches []entities.Breach) error
}

// NopNotifier drops every alert. Used when no bot is configured.
type NopNotifier struct{}

// NotifyExceedance does nothing
func (NopNotifier) NotifyExceedance(context.Context, entities.SampleRecord, []entities.Breach) error {
	return nil
}

// BotNotifier posts alerts through the Telegram Bot API
type BotNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewBotNotifier creates a notifier for the given bot token and chat
func NewBotNotifier(botToken string, chatID int64) (*BotNotifier, error) {
	return NewBotNotifierWithEndpoint(botToken, tgbotapi.APIEndpoint, chatID)
}

// NewBotNotifierWithEndpoint is NewBotNotifier against a custom Bot API endpoint
func NewBotNotifierWithEndpoint(botToken, endpoint string, chatID int64) (*BotNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	log.Printf("Authorized on Telegram account %s", bot.Self.UserName)

	return &BotNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyExceedance sends one message listing every breached parameter of rec
func (n *BotNotifier) NotifyExceedance(ctx context.Context, rec entities.SampleRecord, breaches []entities.Breach) error {
	if len(breaches) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatAlert(rec, breaches))
	log.Printf("Sending threshold alert for sample %s", rec.Code)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send alert for %s: %w", rec.Code, err)
	}
	return nil
}

// FormatAlert formats the alert text for a sample
func FormatAlert(rec entities.SampleRecord, breaches []entities.Breach) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("⚠️ Muestra %s fuera de límite\n\n", rec.Code))
	result.WriteString(fmt.Sprintf("📅 %s %s\n", rec.Date.Format(entities.DateLayout), rec.Time))
	result.WriteString(fmt.Sprintf("💧 %s\n", rec.WaterType))
	for _, b := range breaches {
		result.WriteString(fmt.Sprintf("📈 %s: %.2f (máximo %.2f)\n", b.Parameter, b.Value, b.Limit))
	}
	if rec.Sampler != "" {
		result.WriteString(fmt.Sprintf("👤 %s", rec.Sampler))
	}
	return result.String()
}
