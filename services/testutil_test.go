package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/models"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points storage.DB at a fresh in-memory sqlite database for the
// duration of one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	previous := storage.DB
	storage.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		storage.DB = previous
	})

	return db
}

// seedUsers creates a buyer and a seller with a property owned by the seller.
func seedUsers(t *testing.T, db *gorm.DB) (buyer, seller models.User, property models.Property) {
	t.Helper()

	buyer = models.User{FirstName: "سارة", LastName: "العتيبي", Email: "buyer@example.com"}
	seller = models.User{FirstName: "خالد", LastName: "الحربي", Email: "seller@example.com"}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("create seller: %v", err)
	}

	property = models.Property{
		OwnerID:     seller.ID,
		Title:       "فيلا في حي النرجس",
		Price:       2500000,
		Currency:    "SAR",
		City:        "الرياض",
		District:    "النرجس",
		ListingType: "sale",
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("create property: %v", err)
	}
	return buyer, seller, property
}

// seedConversation wires the three together.
func seedConversation(t *testing.T, db *gorm.DB, buyer, seller models.User, propertyID *uint) *models.Conversation {
	t.Helper()

	conversation, err := FindOrCreateConversation(buyer.ID, seller.ID, propertyID)
	if err != nil {
		t.Fatalf("find or create conversation: %v", err)
	}
	return conversation
}

func mustSend(t *testing.T, input SendMessageInput) *models.Message {
	t.Helper()

	message, err := SendMessage(input)
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	return message
}

func textInput(conversationID, senderID, receiverID uint, content string) SendMessageInput {
	return SendMessageInput{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Type:           models.MessageText,
	}
}
