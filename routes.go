package folio

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded site assets, then the operator's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))
	e.GET("/public/site.js", echo.WrapHandler(embeddedHandler))
	e.GET("/public/site.css", echo.WrapHandler(embeddedHandler))
	e.GET("/public/chroma.css", a.handleChromaCSS)
	e.Static("/public", a.staticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/og-image.jpg", a.handleOGImage)
	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.Metrics.Registry,
	}))

	// Pages
	e.GET("/", a.handleHome)
	e.GET("/portfolio", a.handlePortfolio)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/directory", a.handleDirectory)
	e.GET("/blog/:param", a.handlePost)
	e.POST("/theme", a.handleTheme)
	e.POST("/storage-notice", a.handleStorageNotice)

	// Session
	e.POST("/login", a.handleLogin)
	e.POST("/logout", a.handleLogout)

	// Authoring, forwarded to the backend with the visitor's token. Kept
	// out of /blog so every /blog/:param stays a post.
	e.GET("/admin/posts/new", a.handleNewPostForm, a.requireToken)
	e.POST("/admin/posts/new", a.handleCreatePost, a.requireToken)
	e.POST("/admin/posts/preview", a.handlePreview, a.requireToken)
	e.GET("/admin/posts/:param/edit", a.handleEditPostForm, a.requireToken)
	e.POST("/admin/posts/:param/edit", a.handleUpdatePost, a.requireToken)
	e.POST("/admin/posts/:param/delete", a.handleDeletePost, a.requireToken)
	e.POST("/admin/backup", a.handleBackup, a.requireToken)
	e.POST("/admin/replace-database", a.handleReplaceDatabase, a.requireToken)
}
