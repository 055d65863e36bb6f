package push

import (
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

// Sender отправляет push-уведомление на устройство по его токену
type Sender interface {
	Send(token, title, body string, data map[string]string) error
}

// ExpoSender отправляет уведомления через Expo Push API
type ExpoSender struct {
	client *expo.PushClient
}

// NewExpoSender создает новый экземпляр ExpoSender
func NewExpoSender() *ExpoSender {
	return &ExpoSender{client: expo.NewPushClient(nil)}
}

// Send отправляет одно уведомление и проверяет ответ Expo
func (s *ExpoSender) Send(token, title, body string, data map[string]string) error {
	to, err := expo.NewExponentPushToken(token)
	if err != nil {
		return fmt.Errorf("невалидный push-токен: %w", err)
	}

	response, err := s.client.Publish(&expo.PushMessage{
		To:       []expo.ExponentPushToken{to},
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	})

	if err != nil {
		return fmt.Errorf("ошибка отправки push-уведомления: %w", err)
	}

	if err := response.ValidateResponse(); err != nil {
		return fmt.Errorf("push-уведомление отклонено: %w", err)
	}

	return nil
}
