package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// Presence is read-only from the messaging core's point of view: the write
// path is the authenticated request itself (TouchPresence below), everything
// else just reads Redis.

const presenceTTL = 2 * time.Minute

var presenceCtx = context.Background()

func presenceKey(userID uint) string {
	return fmt.Sprintf("presence:user:%d", userID)
}

func lastSeenKey(userID uint) string {
	return fmt.Sprintf("lastseen:user:%d", userID)
}

// TouchPresence is registered after the JWT verifier; every authenticated
// request refreshes the caller's online window and last-seen timestamp.
func TouchPresence(ctx iris.Context) {
	if storage.Redis != nil {
		if tok := jwt.Get(ctx); tok != nil {
			if claims, ok := tok.(*utils.AccessToken); ok {
				storage.Redis.Set(presenceCtx, presenceKey(claims.ID), "1", presenceTTL)
				storage.Redis.Set(presenceCtx, lastSeenKey(claims.ID), time.Now().Format(time.RFC3339), 0)
			}
		}
	}
	ctx.Next()
}

func IsOnline(userID uint) bool {
	if storage.Redis == nil {
		return false
	}
	exists, err := storage.Redis.Exists(presenceCtx, presenceKey(userID)).Result()
	return err == nil && exists > 0
}

// LastSeen returns the user's last-seen time; ok is false when the user has
// never been observed.
func LastSeen(userID uint) (time.Time, bool) {
	if storage.Redis == nil {
		return time.Time{}, false
	}
	raw, err := storage.Redis.Get(presenceCtx, lastSeenKey(userID)).Result()
	if err != nil {
		return time.Time{}, false
	}
	lastSeen, parseErr := time.Parse(time.RFC3339, raw)
	if parseErr != nil {
		return time.Time{}, false
	}
	return lastSeen, true
}

// FormatLastSeen renders the relative last-seen label shown under the peer's
// name: "now" under a minute, then minutes, hours and days, falling back to
// the calendar date after a week.
func FormatLastSeen(lastSeen time.Time, now time.Time) string {
	elapsed := now.Sub(lastSeen)
	switch {
	case elapsed < time.Minute:
		return "الآن"
	case elapsed < time.Hour:
		return fmt.Sprintf("منذ %d دقيقة", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("منذ %d ساعة", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("منذ %d يوم", int(elapsed.Hours()/24))
	default:
		return lastSeen.Local().Format("02/01/2006")
	}
}

// PresenceLabel combines online state and last-seen into the string the
// client renders.
func PresenceLabel(userID uint, now time.Time) (online bool, label string) {
	if IsOnline(userID) {
		return true, "متصل الآن"
	}
	lastSeen, ok := LastSeen(userID)
	if !ok {
		return false, ""
	}
	return false, FormatLastSeen(lastSeen, now)
}
