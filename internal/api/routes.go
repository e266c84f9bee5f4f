package api

import (
	"github.com/gin-gonic/gin"

	"proptrackrr/web/internal/web"
)

// RouteOptions configures the optional middleware
type RouteOptions struct {
	CORSOrigins []string
	Limiter     *RateLimiter
}

func SetupRoutes(router *gin.Engine, handler *Handler, opts RouteOptions) error {
	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	limited := func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		limited = opts.Limiter.Middleware()
	}

	// preflight requests match no route, so CORS has to run on the engine
	if mw := CORS(opts.CORSOrigins); mw != nil {
		router.Use(mw)
	}

	router.StaticFS("/static", web.StaticFS())
	router.GET("/healthz", handler.Health)

	pages := router.Group("/", SessionLoader(handler.sessions, handler.logger))
	{
		pages.GET("/", handler.staticPage("home", ""))
		pages.GET("/about", handler.staticPage("about", "About"))
		pages.GET("/features", handler.staticPage("features", "Features"))
		pages.GET("/how-it-works", handler.staticPage("how_it_works", "How it works"))
		pages.GET("/privacy", handler.staticPage("privacy", "Privacy Policy"))
		pages.GET("/hostcare", handler.staticPage("hostcare", "Hostcare"))
		pages.GET("/contact", handler.ContactPage)
		pages.POST("/contact", limited, handler.SubmitContact)

		pages.GET("/login", handler.LoginPage)
		pages.POST("/login", limited, handler.Login)
		pages.GET("/register", handler.RegisterPage)
		pages.POST("/register", limited, handler.Register)
		pages.POST("/forgot-password", limited, handler.ForgotPassword)
		pages.POST("/logout", handler.Logout)

		pages.GET("/marketplace", handler.Marketplace)

		broker := pages.Group("/dashboard", RequireBroker())
		{
			broker.GET("", handler.Dashboard)
			broker.POST("/properties/:id/toggle", handler.ToggleProperty)
			broker.POST("/properties/:id/delete", handler.DeleteProperty)
			broker.POST("/properties/:id/edit", handler.EditProperty)
		}
	}

	api := router.Group("/api", SessionLoader(handler.sessions, handler.logger))
	{
		api.GET("/dashboard/properties", RequireBroker(), handler.DashboardProperties)

		api.GET("/marketplace/properties", handler.MarketplaceProperties)
		api.GET("/marketplace/wallet", handler.Wallet)
		api.POST("/marketplace/phone", limited, handler.SetPhone)
		api.POST("/marketplace/unlock", limited, handler.Unlock)
		api.POST("/marketplace/orders", limited, handler.CreateOrder)
		api.POST("/marketplace/verify", limited, handler.VerifyPayment)
	}

	router.NoRoute(SessionLoader(handler.sessions, handler.logger), handler.NotFound)
	return nil
}
