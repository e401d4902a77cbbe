package routes

import (
	"time"

	"labstock/app"
	"labstock/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler behind the auth middleware chain.
func RegisterRoutes(r *gin.Engine, a *app.App) {
	srv := controllers.NewSrv(a)

	authC := controllers.NewAuthController(srv)
	userC := controllers.NewUserController(srv)
	teamC := controllers.NewTeamController(srv)
	memberC := controllers.NewMemberController(srv)
	labC := controllers.NewLabController(srv)
	itemC := controllers.NewItemController(srv)
	borrowC := controllers.NewBorrowController(srv)

	authed := app.AuthRequired(a.Sessions, srv.Repo, a.Config)
	seen := app.TouchLastSeen(srv.Repo, a.RDB, 5*time.Minute)

	api := r.Group("/api")

	// --- auth ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authC.Register)
		auth.POST("/login", authC.Login)
		auth.POST("/logout", authed, authC.Logout)
	}

	// --- current user ---
	me := api.Group("/me", authed, seen)
	{
		me.GET("", authC.Me)
		me.PUT("", authC.UpdateMe)
		me.GET("/teams", teamC.ListMyTeams)
		me.GET("/borrows", borrowC.ListMyBorrows)
	}

	// --- account administration (superuser only) ---
	users := api.Group("/users", authed, seen, app.SuperuserOnly())
	{
		users.GET("", userC.ListUsers)
		users.GET("/:id", userC.GetUser)
		users.PUT("/:id", userC.UpdateUser)
		users.DELETE("/:id", userC.DeleteUser)
	}

	// --- teams, members, and team-scoped resources ---
	teams := api.Group("/teams", authed, seen)
	{
		teams.GET("", teamC.ListTeams)
		teams.POST("", teamC.CreateTeam)
		teams.GET("/:id", teamC.GetTeam)
		teams.PUT("/:id", teamC.UpdateTeam)
		teams.DELETE("/:id", teamC.DeleteTeam)

		teams.GET("/:id/members", memberC.ListMembers)
		teams.POST("/:id/members", memberC.AddMember)
		teams.GET("/:id/members/:userId", memberC.ViewMember)
		teams.PUT("/:id/members/:userId", memberC.UpdatePermissions)
		teams.DELETE("/:id/members/:userId", memberC.RemoveMember)

		teams.GET("/:id/labs", labC.ListLabs)
		teams.POST("/:id/labs", labC.CreateLab)

		teams.GET("/:id/items", itemC.ListItems)
		teams.POST("/:id/items", itemC.CreateItem)

		teams.GET("/:id/borrows", borrowC.ListTeamBorrows)
	}

	labs := api.Group("/labs", authed, seen)
	{
		labs.GET("/:id", labC.GetLab)
		labs.PUT("/:id", labC.UpdateLab)
		labs.DELETE("/:id", labC.DeleteLab)
	}

	items := api.Group("/items", authed, seen)
	{
		items.GET("/:id", itemC.GetItem)
		items.PUT("/:id", itemC.UpdateItem)
		items.DELETE("/:id", itemC.DeleteItem)
		items.POST("/:id/borrow", borrowC.Borrow)
	}

	borrows := api.Group("/borrows", authed, seen)
	{
		borrows.POST("/:id/return", borrowC.Return)
	}
}
