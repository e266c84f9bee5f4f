package models

import "time"

// ContactMessage is a message sent from the Contact page
type ContactMessage struct {
	Name       string    `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email      string    `json:"email" form:"email" validate:"required,email"`
	Message    string    `json:"message" form:"message" validate:"required,min=5,max=2000"`
	ReceivedAt time.Time `json:"received_at" form:"-"`
}

// TelegramConfig stores the bot credentials used to relay contact messages
type TelegramConfig struct {
	IsEnabled bool   `json:"is_enabled"`
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
}
