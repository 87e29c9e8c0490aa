package handler

import (
	"quizhub/internal/domain"
	"quizhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Routes wires the handlers to their paths and guards.
type Routes struct {
	Auth     *AuthHandler
	User     *UserHandler
	Deletion *DeletionHandler
	Quiz     *QuizHandler
	Friend   *FriendHandler
	Health   *HealthHandler

	Verifier   domain.TokenVerifier
	Users      middleware.UserResolver
	Validation *middleware.ValidationMiddleware
}

// Register mounts /health and the /api tree on app. Static user paths are
// registered before /users/:userId so they are matched first.
func (r *Routes) Register(app fiber.Router) {
	protected := middleware.Protected(r.Verifier)
	loadUser := middleware.LoadUser(r.Users)
	activeUser := middleware.RequireActiveUser(r.Users)

	if r.Health != nil {
		app.Get("/health", r.Health.Check)
	}

	api := app.Group("/api")

	api.Post("/auth/session", protected, r.Auth.Session)

	users := api.Group("/users")
	users.Post("", protected, r.User.SignUp)
	users.Get("/availability", r.User.CheckAvailability)
	users.Get("/search", r.User.Search)
	users.Get("/username/:username", r.User.GetUserIDByUsername)
	users.Get("/me", protected, r.User.GetMe)
	users.Get("/me/friends", protected, loadUser, r.Friend.ListFriends)
	users.Post("/me/deletion", protected, r.Deletion.Schedule)
	users.Post("/me/deletion/cancel", protected, r.Deletion.Cancel)
	users.Post("/me/deletion/execute", protected, r.Deletion.Execute)
	users.Post("/me/favourites/:quizId", protected, activeUser, r.User.AddFavourite)
	users.Delete("/me/favourites/:quizId", protected, activeUser, r.User.RemoveFavourite)
	users.Get("/:userId", r.User.GetPublicProfile)
	users.Patch("/:userId", protected, activeUser, middleware.SelfOnly("userId"), r.User.UpdateProfile)
	users.Delete("/:userId", protected, loadUser, middleware.SelfOnly("userId"), r.Deletion.DeleteUser)

	quizzes := api.Group("/quizzes")
	quizzes.Get("", r.Quiz.ListQuizzes)
	quizzes.Post("", protected, activeUser, r.Quiz.CreateQuiz)
	quizzes.Get("/:quizId", r.Quiz.GetQuiz)
	quizzes.Get("/:quizId/leaderboard", r.Quiz.GetLeaderboard)
	quizzes.Delete("/:quizId", protected, activeUser, r.Validation.ValidateIDParams("quizId"), r.Quiz.DeleteQuiz)
	quizzes.Post("/:quizId/submit", protected, activeUser, r.Validation.ValidateIDParams("quizId"), r.Quiz.SubmitQuiz)

	friendID := r.Validation.ValidateIDParams("userId")
	friends := api.Group("/friends", protected, activeUser)
	friends.Post("/:userId", friendID, r.Friend.RequestFriend)
	friends.Post("/:userId/accept", friendID, r.Friend.AcceptFriend)
	friends.Delete("/:userId", friendID, r.Friend.RemoveFriend)
}
