package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Mohamedabdulaziz1920/real-estate-sub000/routes"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/services"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/storage"
	"github.com/Mohamedabdulaziz1920/real-estate-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	authenticated := []iris.Handler{
		accessTokenVerifierMiddleware,
		utils.UserIDFromTokenMiddleware,
		services.TouchPresence,
	}

	users := app.Party("/api/users")
	{
		users.Post("/register", routes.Register)
		users.Post("/login", routes.Login)
		users.Post("/google", routes.GoogleLoginOrSignUp)
		users.Post("/apple", routes.AppleLoginOrSignUp)
		users.Put("/push-token", append(authenticated, routes.AlterPushToken)...)
		users.Get("/{id:uint}/presence", append(authenticated, routes.GetUserPresence)...)
	}

	conversations := app.Party("/api/conversations")
	{
		conversations.Get("/", append(authenticated, routes.GetConversations)...)
		conversations.Post("/", append(authenticated, routes.StartConversation)...)
		conversations.Get("/{id:uint}", append(authenticated, routes.OpenConversation)...)
		conversations.Patch("/{id:uint}/flags", append(authenticated, routes.SetConversationFlag)...)
		conversations.Post("/{id:uint}/typing", append(authenticated, routes.Typing)...)
		conversations.Get("/{id:uint}/typing", append(authenticated, routes.PeerTyping)...)
	}

	messages := app.Party("/api/messages")
	{
		messages.Post("/", append(authenticated, routes.CreateMessage)...)
		messages.Put("/", append(authenticated, routes.MarkMessagesRead)...)
		messages.Get("/{conversationID:uint}", append(authenticated, routes.GetConversationMessages)...)
		messages.Post("/{messageID:uint}/offer/{action:string}", append(authenticated, routes.RespondToOffer)...)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
