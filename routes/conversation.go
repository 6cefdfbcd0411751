package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/services"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetConversations returns the caller's conversation list for one tab,
// filtered by the optional search string, plus the aggregate unread badge.
func GetConversations(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	tab := ctx.URLParamDefault("tab", services.TabAll)
	if !services.ValidTab(tab) {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_tab", "tab must be one of all, unread, archived")
		return
	}
	search := ctx.URLParamDefault("search", "")

	conversations, err := services.ProjectConversations(userID, tab, search)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	totalUnread, err := services.AggregateUnread(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"conversations": conversations,
		"totalUnread":   totalUnread,
	})
}

type StartConversationInput struct {
	ReceiverID uint   `json:"receiverID" validate:"required"`
	PropertyID *uint  `json:"propertyID"`
	Message    string `json:"message"`
}

// StartConversation finds or creates the thread for the caller and the
// receiver (optionally scoped to a property) and sends the opening message
// when one is provided.
func StartConversation(ctx iris.Context) {
	var req StartConversationInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := utils.ContextUserID(ctx)

	conversation, err := services.FindOrCreateConversation(userID, req.ReceiverID, req.PropertyID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	if req.Message != "" {
		message, sendErr := services.SendMessage(services.SendMessageInput{
			ConversationID: conversation.ID,
			SenderID:       userID,
			ReceiverID:     req.ReceiverID,
			Content:        req.Message,
			Type:           models.MessageText,
		})
		if sendErr != nil {
			handleServiceError(sendErr, ctx)
			return
		}
		go notifyNewMessage(message)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"conversationID": conversation.ID})
}

// OpenConversation is the chat-session entry point: it returns the thread,
// the date-grouped history and the peer's presence, and resets the caller's
// unread count. Opening is the only operation that decreases unread.
func OpenConversation(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	userID := utils.ContextUserID(ctx)

	conversation, convErr := services.GetConversation(conversationID, userID)
	if convErr != nil {
		handleServiceError(convErr, ctx)
		return
	}

	if resetErr := services.ResetUnreadOnOpen(conversationID, userID); resetErr != nil {
		handleServiceError(resetErr, ctx)
		return
	}

	messages, listErr := services.ListMessages(conversationID, false)
	if listErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	peerID := conversation.OtherParticipant(userID)
	online, lastSeen := services.PresenceLabel(peerID, time.Now())

	ctx.JSON(iris.Map{
		"conversation": conversation,
		"groups":       services.GroupMessagesByDate(messages),
		"peer": iris.Map{
			"userID":   peerID,
			"isOnline": online,
			"lastSeen": lastSeen,
		},
	})
}

type SetFlagInput struct {
	Flag  string `json:"flag" validate:"required,oneof=isPinned isArchived isMuted isBlocked"`
	Value *bool  `json:"value" validate:"required"`
}

// SetConversationFlag toggles pin/archive/mute/block on a thread.
func SetConversationFlag(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var req SetFlagInput
	if readErr := ctx.ReadJSON(&req); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	userID := utils.ContextUserID(ctx)

	conversation, flagErr := services.SetConversationFlag(conversationID, userID, req.Flag, *req.Value)
	if flagErr != nil {
		handleServiceError(flagErr, ctx)
		return
	}

	ctx.JSON(conversation)
}

// Typing sets a short-lived typing key in Redis for 5 seconds.
func Typing(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	userID := utils.ContextUserID(ctx)

	if _, convErr := services.GetConversation(conversationID, userID); convErr != nil {
		handleServiceError(convErr, ctx)
		return
	}

	storage.Redis.Set(ctx, typingKey(conversationID, userID), "1", 5*time.Second)
	ctx.JSON(iris.Map{"success": true})
}

// PeerTyping reports whether the other participant is currently typing.
func PeerTyping(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	userID := utils.ContextUserID(ctx)

	conversation, convErr := services.GetConversation(conversationID, userID)
	if convErr != nil {
		handleServiceError(convErr, ctx)
		return
	}

	peerID := conversation.OtherParticipant(userID)
	typing := false
	if val, redisErr := storage.Redis.Get(ctx, typingKey(conversationID, peerID)).Result(); redisErr == nil && val == "1" {
		typing = true
	}
	ctx.JSON(iris.Map{"typing": typing})
}

func typingKey(conversationID uint, userID uint) string {
	return fmt.Sprintf("typing:conv:%d:user:%d", conversationID, userID)
}
