package routes

import (
	"log"
	"net/http"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/services"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/utils"

	"github.com/kataras/iris/v12"
)

type CreateMessageInput struct {
	ConversationID uint                `json:"conversationID" validate:"required"`
	ReceiverID     uint                `json:"receiverID" validate:"required"`
	Content        string              `json:"content" validate:"required,lt=5000"`
	MessageType    string              `json:"messageType" validate:"required,oneof=text offer attachment"`
	Offer          *OfferInput         `json:"offer"`
	Attachments    []models.Attachment `json:"attachments"`
	ClientKey      string              `json:"clientKey" validate:"omitempty,uuid4"`
}

type OfferInput struct {
	Amount int64 `json:"amount" validate:"required"`
}

// CreateMessage appends one message to a conversation the caller belongs to.
func CreateMessage(ctx iris.Context) {
	var req CreateMessageInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	senderID := utils.ContextUserID(ctx)

	input := services.SendMessageInput{
		ConversationID: req.ConversationID,
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Content:        req.Content,
		Type:           req.MessageType,
		Attachments:    req.Attachments,
		ClientKey:      req.ClientKey,
	}
	if req.Offer != nil {
		input.OfferAmount = &req.Offer.Amount
	}

	message, err := services.SendMessage(input)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	go notifyNewMessage(message)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// GetConversationMessages is the poll read path for one conversation's log.
// ?grouped=1 returns date buckets, ?includeDeleted=1 is the audit view.
func GetConversationMessages(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("conversationID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	viewerID := utils.ContextUserID(ctx)
	includeDeleted := ctx.URLParamBoolDefault("includeDeleted", false)

	messages, fetchErr := services.FetchMessages(conversationID, viewerID, includeDeleted)
	if fetchErr != nil {
		handleServiceError(fetchErr, ctx)
		return
	}

	if ctx.URLParamBoolDefault("grouped", false) {
		ctx.JSON(iris.Map{"groups": services.GroupMessagesByDate(messages)})
		return
	}
	ctx.JSON(iris.Map{"messages": messages})
}

type MarkMessagesReadInput struct {
	MessageIDs []uint `json:"messageIDs" validate:"required,min=1"`
}

// MarkMessagesRead flips the read flag on the caller's inbound messages.
func MarkMessagesRead(ctx iris.Context) {
	var req MarkMessagesReadInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	readerID := utils.ContextUserID(ctx)

	if err := services.MarkMessagesRead(req.MessageIDs, readerID); err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

type CounterOfferInput struct {
	Amount  int64  `json:"amount"`
	Content string `json:"content"`
}

// RespondToOffer handles accept/reject/counter on an offer message.
func RespondToOffer(ctx iris.Context) {
	messageID, err := ctx.Params().GetUint("messageID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}
	action := ctx.Params().Get("action")

	var req CounterOfferInput
	if action == services.OfferActionCounter {
		if readErr := ctx.ReadJSON(&req); readErr != nil {
			utils.HandleValidationErrors(readErr, ctx)
			return
		}
	}

	responderID := utils.ContextUserID(ctx)

	response, respondErr := services.RespondToOffer(messageID, responderID, action, req.Amount, req.Content)
	if respondErr != nil {
		handleServiceError(respondErr, ctx)
		return
	}

	go notifyOfferResponse(response, action)

	out := iris.Map{"message": response.Original}
	if response.Counter != nil {
		out["counter"] = response.Counter
	}
	ctx.JSON(out)
}

// notifyNewMessage raises the message_received event unless the receiver
// muted the thread.
func notifyNewMessage(message *models.Message) {
	conversation, err := services.GetConversation(message.ConversationID, message.SenderID)
	if err != nil || conversation.IsMuted {
		return
	}

	propertyTitle := ""
	if conversation.Property != nil {
		propertyTitle = conversation.Property.Title
	}

	notificationService := services.NewNotificationService()
	if message.Type == models.MessageOffer && message.Offer != nil {
		if err := notificationService.SendOfferNotification(
			message.ReceiverID, message, "offer_received", message.Offer.Amount, message.Sender.FullName()); err != nil {
			log.Printf("offer notification for message %d: %v", message.ID, err)
		}
		return
	}
	if err := notificationService.SendMessageNotification(
		message.ReceiverID, message, message.Sender.FullName(), propertyTitle); err != nil {
		log.Printf("message notification for message %d: %v", message.ID, err)
	}
}

func notifyOfferResponse(response *services.OfferResponse, action string) {
	original := response.Original

	conversation, err := services.GetConversation(original.ConversationID, original.SenderID)
	if err != nil || conversation.IsMuted {
		return
	}

	event := "offer_" + action + "ed" // accepted, rejected
	amount := original.Offer.Amount
	notified := original.SenderID
	actor := original.ReceiverID

	if action == services.OfferActionCounter && response.Counter != nil {
		event = "offer_countered"
		amount = response.Counter.Offer.Amount
	}

	var actorUser models.User
	if conversation.Buyer.ID == actor {
		actorUser = conversation.Buyer
	} else {
		actorUser = conversation.Seller
	}

	target := response.Original
	if response.Counter != nil {
		target = response.Counter
	}

	notificationService := services.NewNotificationService()
	if err := notificationService.SendOfferNotification(notified, target, event, amount, actorUser.FullName()); err != nil {
		log.Printf("offer response notification for message %d: %v", original.ID, err)
	}
}
