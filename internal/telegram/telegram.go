package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"proptrackrr/web/internal/models"
)

const defaultAPIBase = "https://api.telegram.org"

type Service struct {
	logger  *logrus.Logger
	client  *http.Client
	config  *models.TelegramConfig
	apiBase string
}

func NewService(logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config:  &models.TelegramConfig{},
		apiBase: defaultAPIBase,
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	if config == nil {
		config = &models.TelegramConfig{}
	}
	s.config = config
}

// SetAPIBase points the service at another Bot API host
func (s *Service) SetAPIBase(base string) {
	s.apiBase = strings.TrimRight(base, "/")
}

// Enabled reports whether messages will actually be sent
func (s *Service) Enabled() bool {
	return s.config.IsEnabled && s.config.BotToken != "" && s.config.ChatID != ""
}

// SendMessage sends an HTML formatted message to the configured chat
func (s *Service) SendMessage(ctx context.Context, message string) error {
	if !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("telegram chat ID is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyContactMessage forwards a Contact page message to the chat
func (s *Service) NotifyContactMessage(ctx context.Context, msg models.ContactMessage) error {
	if !s.config.IsEnabled {
		return nil
	}

	received := msg.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	message := fmt.Sprintf(
		"<b>New contact message</b>\n\n"+
			"👤 %s\n"+
			"✉️ %s\n"+
			"🕒 %s\n\n"+
			"%s",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		received.Format("02 Jan 2006 15:04 MST"),
		html.EscapeString(msg.Message),
	)

	return s.SendMessage(ctx, message)
}
