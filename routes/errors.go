package routes

import (
	"errors"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/services"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/utils"

	"github.com/kataras/iris/v12"
)

// handleServiceError maps core domain errors onto the HTTP surface. Anything
// unknown is treated as a server fault.
func handleServiceError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrInvalidMessage):
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_message", err.Error())
	case errors.Is(err, services.ErrInvalidAmount):
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, services.ErrIllegalTransition):
		utils.JSONError(ctx, iris.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrConversationBlocked):
		utils.JSONError(ctx, iris.StatusForbidden, "conversation_blocked", err.Error())
	case errors.Is(err, services.ErrConversationNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", err.Error())
	default:
		utils.CreateInternalServerError(ctx)
	}
}
