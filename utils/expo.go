package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type expoPushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound"`
	Data  map[string]string `json:"data,omitempty"`
}

var expoClient = &http.Client{Timeout: 10 * time.Second}

// SendNotification posts one push message to the Expo push API. Best effort:
// callers fire this from a goroutine and only log failures.
func SendNotification(pushToken string, title string, body string, data map[string]string) error {
	message := expoPushMessage{
		To:    pushToken,
		Title: title,
		Body:  body,
		Sound: "default",
		Data:  data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	resp, err := expoClient.Post(
		"https://exp.host/--/api/v2/push/send",
		"application/json",
		bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push returned status %d", resp.StatusCode)
	}
	return nil
}
