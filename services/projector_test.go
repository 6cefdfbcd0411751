package services

import (
	"testing"
	"time"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"

	"gorm.io/gorm"
)

func setUpdatedAt(t *testing.T, db *gorm.DB, conversationID uint, at time.Time) {
	t.Helper()
	if err := db.Model(&models.Conversation{}).Where("id = ?", conversationID).
		UpdateColumn("updated_at", at).Error; err != nil {
		t.Fatalf("set updated_at: %v", err)
	}
}

func TestProjectConversationsTabs(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, property := seedUsers(t, db)

	active := seedConversation(t, db, buyer, seller, &property.ID)
	archived := seedConversation(t, db, buyer, seller, nil)

	mustSend(t, textInput(active.ID, seller.ID, buyer.ID, "مرحبا"))
	if _, err := SetConversationFlag(archived.ID, buyer.ID, FlagArchived, true); err != nil {
		t.Fatalf("archive: %v", err)
	}

	all, err := ProjectConversations(buyer.ID, TabAll, "")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 || all[0].ID != active.ID {
		t.Fatalf("all tab must hide archived threads, got %d rows", len(all))
	}

	unread, _ := ProjectConversations(buyer.ID, TabUnread, "")
	if len(unread) != 1 || unread[0].ID != active.ID {
		t.Fatalf("unread tab: got %d rows", len(unread))
	}
	if unread[0].UnreadCount != 1 {
		t.Fatalf("unread count in view = %d, want 1", unread[0].UnreadCount)
	}

	// The seller has nothing unread, so their unread tab is empty.
	sellerUnread, _ := ProjectConversations(seller.ID, TabUnread, "")
	if len(sellerUnread) != 0 {
		t.Fatalf("seller unread tab: got %d rows, want 0", len(sellerUnread))
	}

	archivedTab, _ := ProjectConversations(buyer.ID, TabArchived, "")
	if len(archivedTab) != 1 || archivedTab[0].ID != archived.ID {
		t.Fatalf("archived tab: got %d rows", len(archivedTab))
	}
}

// Search must hit when only the property title matches, even if neither the
// peer's name nor the last message mention the term.
func TestProjectConversationsSearchPropertyTitle(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, property := seedUsers(t, db)

	conversation := seedConversation(t, db, buyer, seller, &property.ID)
	mustSend(t, textInput(conversation.ID, seller.ID, buyer.ID, "أهلاً بك"))

	views, err := ProjectConversations(buyer.ID, TabAll, "النرجس")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(views) != 1 || views[0].ID != conversation.ID {
		t.Fatalf("search by property title: got %d rows, want 1", len(views))
	}

	if views, _ = ProjectConversations(buyer.ID, TabAll, "العليا"); len(views) != 0 {
		t.Fatalf("non-matching search returned %d rows", len(views))
	}
}

func TestProjectConversationsSearchPeerNameAndLastMessage(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, _ := seedUsers(t, db)

	conversation := seedConversation(t, db, buyer, seller, nil)
	mustSend(t, textInput(conversation.ID, seller.ID, buyer.ID, "موعد المعاينة غداً"))

	// Peer name, as the buyer sees it.
	if views, _ := ProjectConversations(buyer.ID, TabAll, "خالد"); len(views) != 1 {
		t.Fatalf("search by peer name failed")
	}
	// Last message content.
	if views, _ := ProjectConversations(buyer.ID, TabAll, "المعاينة"); len(views) != 1 {
		t.Fatalf("search by last message failed")
	}
	// Case-insensitive for latin input.
	seller2 := models.User{FirstName: "Omar", LastName: "Hassan", Email: "omar@example.com"}
	db.Create(&seller2)
	conversation2 := seedConversation(t, db, buyer, seller2, nil)
	mustSend(t, textInput(conversation2.ID, seller2.ID, buyer.ID, "hello"))
	if views, _ := ProjectConversations(buyer.ID, TabAll, "omar"); len(views) != 1 {
		t.Fatalf("case-insensitive search failed")
	}
}

// A pinned thread ten days stale still precedes an unpinned thread touched an
// hour ago.
func TestProjectConversationsPinnedDominatesRecency(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, property := seedUsers(t, db)

	seller2 := models.User{FirstName: "نورة", Email: "noura@example.com"}
	db.Create(&seller2)

	pinned := seedConversation(t, db, buyer, seller, &property.ID)
	recent := seedConversation(t, db, buyer, seller2, nil)

	if _, err := SetConversationFlag(pinned.ID, buyer.ID, FlagPinned, true); err != nil {
		t.Fatalf("pin: %v", err)
	}

	now := time.Now()
	setUpdatedAt(t, db, pinned.ID, now.Add(-10*24*time.Hour))
	setUpdatedAt(t, db, recent.ID, now.Add(-time.Hour))

	views, err := ProjectConversations(buyer.ID, TabAll, "")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d rows, want 2", len(views))
	}
	if views[0].ID != pinned.ID {
		t.Fatal("pinned conversation must come first regardless of updatedAt")
	}
}

func TestProjectConversationsRecencyWithinGroups(t *testing.T) {
	db := setupTestDB(t)
	buyer, _, _ := seedUsers(t, db)

	now := time.Now()
	var ordered []uint
	for i, hoursAgo := range []int{30, 5, 50} {
		peer := models.User{FirstName: "بائع", Email: string(rune('a'+i)) + "@example.com"}
		db.Create(&peer)
		conversation := seedConversation(t, db, buyer, peer, nil)
		setUpdatedAt(t, db, conversation.ID, now.Add(-time.Duration(hoursAgo)*time.Hour))
		ordered = append(ordered, conversation.ID)
	}

	views, err := ProjectConversations(buyer.ID, TabAll, "")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	// Expect 5h, 30h, 50h.
	want := []uint{ordered[1], ordered[0], ordered[2]}
	for i, id := range want {
		if views[i].ID != id {
			t.Fatalf("position %d: got conversation %d, want %d", i, views[i].ID, id)
		}
	}
}

func TestProjectConversationsOtherUser(t *testing.T) {
	db := setupTestDB(t)
	buyer, seller, _ := seedUsers(t, db)
	seedConversation(t, db, buyer, seller, nil)

	buyerViews, _ := ProjectConversations(buyer.ID, TabAll, "")
	if len(buyerViews) != 1 || buyerViews[0].OtherUser.ID != seller.ID {
		t.Fatal("buyer must see the seller as the peer")
	}

	sellerViews, _ := ProjectConversations(seller.ID, TabAll, "")
	if len(sellerViews) != 1 || sellerViews[0].OtherUser.ID != buyer.ID {
		t.Fatal("seller must see the buyer as the peer")
	}
}
