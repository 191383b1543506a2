package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/cakeshop/internal/models"
)

// TelegramService sends best-effort order notifications to the admin chat.
// Failures are logged by callers and never affect order state.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyOrderConfirmed tells the admin chat that an order was confirmed,
// either by payment capture or cash-on-delivery placement.
func (s *TelegramService) NotifyOrderConfirmed(order *models.Order) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Order confirmed</b>\n")
	fmt.Fprintf(&b, "Number: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Payment: %s", order.PaymentMethod)
	if order.IsPaid {
		b.WriteString(" (paid)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: Rs %s\n", order.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Items: %d", len(order.Items))

	return s.SendMessage(s.adminChatID, b.String())
}
