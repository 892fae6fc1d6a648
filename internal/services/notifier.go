package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/example/taskflow/internal/logging"
	"github.com/example/taskflow/internal/models"
	"github.com/example/taskflow/internal/utils"
)

// OTPPurpose tells the recipient what a code is for.
type OTPPurpose string

const (
	PurposeVerification  OTPPurpose = "verification"
	PurposePasswordReset OTPPurpose = "password_reset"
)

// OTPNotifier delivers one-time codes to account holders.
type OTPNotifier interface {
	SendOTP(ctx context.Context, account *models.Account, code string, purpose OTPPurpose) error
}

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends OTP messages to a Telegram chat.
type TelegramNotifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
	log      logging.Logger
}

// NewTelegramNotifier creates a TelegramNotifier. With an empty token or
// chat it only logs that delivery was skipped.
func NewTelegramNotifier(botToken, chatID string, log logging.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendOTP posts the code for account to the configured chat.
func (n *TelegramNotifier) SendOTP(ctx context.Context, account *models.Account, code string, purpose OTPPurpose) error {
	if n.botToken == "" || n.chatID == "" {
		n.log.Info(ctx, "otp delivery not configured, skipping", "account_id", account.ID, "purpose", string(purpose))
		return nil
	}

	body, err := json.Marshal(telegramMessage{
		ChatID:    n.chatID,
		Text:      FormatOTPMessage(account, code, purpose),
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// FormatOTPMessage renders the HTML message for a code.
func FormatOTPMessage(account *models.Account, code string, purpose OTPPurpose) string {
	action := "verify your account"
	if purpose == PurposePasswordReset {
		action = "reset your password"
	}

	minutes := int(utils.OTPValidity / time.Minute)
	return fmt.Sprintf(
		"Hello %s,\nUse <b>%s</b> to %s.\nThe code expires in %d minutes.\nSent to: %s",
		html.EscapeString(account.Name), code, action, minutes, html.EscapeString(account.Email),
	)
}
