package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/utils"
)

// NotificationService raises notification events for messaging activity.
// It records the event row and makes a best-effort push call; anything
// beyond that (email, SMS, retries) belongs to the delivery worker.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData is the deep-linking payload attached to a push message.
type NotificationData struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	MessageID      string `json:"messageId,omitempty"`
	SenderID       string `json:"senderId,omitempty"`
	Screen         string `json:"screen"`
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser records the event and pushes it to every device
// token the user registered.
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data NotificationData) error {
	payload, _ := json.Marshal(data)
	notification := models.Notification{
		UserID: userID,
		Type:   data.Type,
		Title:  title,
		Body:   body,
		Data:   string(payload),
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("❌ NOTIFICATION ERROR: failed to record event for user %d: %v", userID, err)
		return err
	}

	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	dataMap := map[string]string{
		"type":           data.Type,
		"conversationId": data.ConversationID,
		"messageId":      data.MessageID,
		"senderId":       data.SenderID,
		"screen":         data.Screen,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			log.Printf("❌ PUSH ERROR: token for user %d: %v", userID, err)
			lastError = err
		}
	}

	if lastError == nil {
		storage.DB.Model(&notification).Update("is_sent", true)
	}
	return lastError
}

// SendMessageNotification notifies the receiver of a new inbound message.
func (ns *NotificationService) SendMessageNotification(receiverID uint, message *models.Message, senderName, propertyTitle string) error {
	title := "💬 رسالة جديدة"
	body := fmt.Sprintf("%s أرسل لك رسالة", senderName)
	if propertyTitle != "" {
		body = fmt.Sprintf("%s أرسل لك رسالة بخصوص %s", senderName, propertyTitle)
	}

	data := NotificationData{
		Type:           "message_received",
		ConversationID: fmt.Sprintf("%d", message.ConversationID),
		MessageID:      fmt.Sprintf("%d", message.ID),
		SenderID:       fmt.Sprintf("%d", message.SenderID),
		Screen:         "Chat",
	}

	return ns.SendNotificationToUser(receiverID, title, body, data)
}

// SendOfferNotification notifies the other party of an offer event.
func (ns *NotificationService) SendOfferNotification(receiverID uint, message *models.Message, event string, amount int64, senderName string) error {
	var title, body string

	switch event {
	case "offer_accepted":
		title = "✅ تم قبول عرضك"
		body = fmt.Sprintf("%s قبل عرضك بمبلغ %d", senderName, amount)
	case "offer_rejected":
		title = "❌ تم رفض عرضك"
		body = fmt.Sprintf("%s رفض عرضك بمبلغ %d", senderName, amount)
	case "offer_countered":
		title = "🔁 عرض مضاد"
		body = fmt.Sprintf("%s قدم عرضاً مضاداً بمبلغ %d", senderName, amount)
	default:
		title = "💰 عرض سعر جديد"
		body = fmt.Sprintf("%s قدم عرضاً بمبلغ %d", senderName, amount)
	}

	data := NotificationData{
		Type:           event,
		ConversationID: fmt.Sprintf("%d", message.ConversationID),
		MessageID:      fmt.Sprintf("%d", message.ID),
		SenderID:       fmt.Sprintf("%d", message.SenderID),
		Screen:         "Chat",
	}

	return ns.SendNotificationToUser(receiverID, title, body, data)
}
