package services

import (
	"sort"
	"strings"
	"time"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"

	"golang.org/x/exp/slices"
)

// Conversation list tabs.
const (
	TabAll      = "all"
	TabUnread   = "unread"
	TabArchived = "archived"
)

var conversationTabs = []string{TabAll, TabUnread, TabArchived}

func ValidTab(tab string) bool {
	return slices.Contains(conversationTabs, tab)
}

// ConversationView is one row of the conversation list as the viewer sees it:
// the thread plus the peer, the viewer's unread count and the peer's presence.
type ConversationView struct {
	*models.Conversation
	OtherUser     models.User `json:"otherUser"`
	UnreadCount   int         `json:"unreadCount"`
	IsOnline      bool        `json:"isOnline"`
	LastSeenLabel string      `json:"lastSeenLabel,omitempty"`
}

// ProjectConversations recomputes the filtered, searched, sorted list for one
// viewer. Nothing here is persisted; every call starts from the repository.
func ProjectConversations(userID uint, tab string, search string) ([]ConversationView, error) {
	if tab == "" {
		tab = TabAll
	}

	var conversations []models.Conversation
	err := storage.DB.
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Preload("Buyer").
		Preload("Seller").
		Preload("Property").
		Preload("LastMessage").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	needle := strings.ToLower(strings.TrimSpace(search))

	views := make([]ConversationView, 0, len(conversations))
	for i := range conversations {
		conversation := &conversations[i]

		switch tab {
		case TabArchived:
			if !conversation.IsArchived {
				continue
			}
		case TabUnread:
			if conversation.IsArchived || conversation.UnreadFor(userID) == 0 {
				continue
			}
		default:
			if conversation.IsArchived {
				continue
			}
		}

		view := ConversationView{
			Conversation: conversation,
			OtherUser:    otherUser(conversation, userID),
			UnreadCount:  conversation.UnreadFor(userID),
		}
		view.IsOnline, view.LastSeenLabel = PresenceLabel(view.OtherUser.ID, now)

		if needle != "" && !matchesSearch(&view, needle) {
			continue
		}
		views = append(views, view)
	}

	// Pinned first, then most recent activity; stable within each group.
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsPinned != views[j].IsPinned {
			return views[i].IsPinned
		}
		return views[i].UpdatedAt.After(views[j].UpdatedAt)
	})

	return views, nil
}

func otherUser(conversation *models.Conversation, userID uint) models.User {
	if conversation.BuyerID == userID {
		return conversation.Seller
	}
	return conversation.Buyer
}

// matchesSearch checks the peer's name, the property title and the last
// message body; any single hit keeps the conversation.
func matchesSearch(view *ConversationView, needle string) bool {
	if strings.Contains(strings.ToLower(view.OtherUser.FullName()), needle) {
		return true
	}
	if view.Property != nil && strings.Contains(strings.ToLower(view.Property.Title), needle) {
		return true
	}
	if view.LastMessage != nil && strings.Contains(strings.ToLower(view.LastMessage.Content), needle) {
		return true
	}
	return false
}
