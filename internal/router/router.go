package router

import (
	"net/http"

	"blogicum/internal/handlers"
	"blogicum/internal/middleware"
	"blogicum/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "blogicum_session"

// Options configure the engine around the routes.
type Options struct {
	SessionSecret string
	SecureCookies bool
	CSRFEnabled   bool
	// MediaRoot and MediaURL are set when uploads live on the local disk and
	// have to be served by the app itself.
	MediaRoot string
	MediaURL  string
}

// New builds the engine with middleware, templates and every route.
func New(deps *handlers.Deps, opts Options) (*gin.Engine, error) {
	r := gin.New()

	renderer, err := web.NewRenderer(deps.FuncMap())
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	pagesHandler := handlers.NewPagesHandler(deps)

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.Recovery(deps.Log, pagesHandler.ServerError))
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(deps.Users))
	r.Use(middleware.CSRF(opts.CSRFEnabled, pagesHandler.CSRFFailure))

	r.StaticFS("/static", http.FS(web.Static()))
	if opts.MediaRoot != "" && opts.MediaURL != "" {
		r.Static(opts.MediaURL, opts.MediaRoot)
	}

	RegisterRoutes(r, deps)
	r.NoRoute(pagesHandler.NotFound)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps *handlers.Deps) {
	// Handlers
	blogHandler := handlers.NewBlogHandler(deps)
	postHandler := handlers.NewPostHandler(deps)
	commentHandler := handlers.NewCommentHandler(deps, postHandler)
	userHandler := handlers.NewUserHandler(deps)
	authHandler := handlers.NewAuthHandler(deps)
	pagesHandler := handlers.NewPagesHandler(deps)

	// Public routes
	r.GET("/", blogHandler.Index)
	r.GET("/category/:slug/", blogHandler.CategoryPosts)
	r.GET("/posts/:id/", postHandler.Detail)
	r.GET("/profile/:username", userHandler.Profile)

	r.GET("/pages/about/", pagesHandler.About)
	r.GET("/pages/rules/", pagesHandler.Rules)

	auth := r.Group("/auth")
	{
		auth.GET("/registration/", authHandler.ShowRegister)
		auth.POST("/registration/", authHandler.Register)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/logout/", authHandler.Logout)
	}

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create_post/", postHandler.ShowCreate)
		authorized.POST("/create_post/", postHandler.Create)

		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Update)
		authorized.GET("/posts/:id/delete/", postHandler.ShowDelete)
		authorized.POST("/posts/:id/delete/", postHandler.Delete)

		authorized.POST("/posts/:id/comment/", commentHandler.Create)
		for _, method := range []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		} {
			authorized.Handle(method, "/posts/:id/comment/", commentHandler.MethodNotAllowed)
		}
		authorized.GET("/posts/:id/edit_comment/:comment_id", commentHandler.ShowEdit)
		authorized.POST("/posts/:id/edit_comment/:comment_id", commentHandler.Update)
		authorized.GET("/posts/:id/delete_comment/:comment_id", commentHandler.ShowDelete)
		authorized.POST("/posts/:id/delete_comment/:comment_id", commentHandler.Delete)

		authorized.GET("/profile/edit/", userHandler.ShowEdit)
		authorized.POST("/profile/edit/", userHandler.Update)
	}
}
