package main

import (
	"log"
	"net/http"

	"library_rental/pkg/accounts"
	"library_rental/pkg/auth"
	"library_rental/pkg/catalog"
	"library_rental/pkg/config"
	"library_rental/pkg/database"
	"library_rental/pkg/rental"
	"library_rental/pkg/stats"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	db         *gorm.DB
	cfg        config.Config
	issuer     *auth.Issuer
	books      *catalog.Store
	rentals    *rental.Manager
	statistics *stats.Engine
	users      *accounts.Service
)

func main() {
	log.Println("Starting library service...")

	conf := config.Load()
	source, err := stats.ParseSource(conf.StatsSource)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	conn, err := database.Open(conf)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	setup(conn, conf, source)

	if conf.SweepSchedule != "" {
		sweeper, err := rental.NewSweeper(conf.SweepSchedule, rentals, conf.SweepGraceDays)
		if err != nil {
			log.Fatalf("Invalid SWEEP_SCHEDULE: %v", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
		log.Printf("Rental sweeper scheduled: %s (grace %d days)", conf.SweepSchedule, conf.SweepGraceDays)
	}

	server := newRouter()
	log.Printf("Library service starting on :%s", conf.Port)
	if err := server.Run(":" + conf.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func setup(conn *gorm.DB, conf config.Config, source stats.Source, opts ...rental.Option) {
	db = conn
	cfg = conf
	issuer = auth.NewIssuer(conf.JWTSecret, conf.TokenTTL)
	books = catalog.New(conn)
	rentals = rental.NewManager(conn, opts...)
	statistics = stats.NewEngine(conn, source)
	users = accounts.New(conn, auth.RoleIDs{
		Admin:     conf.AdminRoleID,
		Librarian: conf.LibrarianRoleID,
		Patron:    conf.PatronRoleID,
	})
}

func newRouter() *gin.Engine {
	server := gin.New()
	server.Use(gin.Logger(), gin.Recovery(), requestID())

	server.GET("/", getCatalog)
	server.GET("/api/v1/books", getCatalog)
	server.GET("/api/v1/books/:bookId", getBook)
	server.GET("/manage/health", healthCheck)

	authGroup := server.Group("/auth")
	authGroup.POST("/login", login)
	authGroup.POST("/reg", register)
	authGroup.POST("/logout", requireAuth(), logout)

	member := server.Group("/", requireAuth())
	member.GET("/personal_account", personalAccount)
	member.GET("/rent", getRentForm)
	member.POST("/rent", createRent)
	member.GET("/read_book", readBook)
	member.POST("/rentals/:bookId/delete", returnBook)
	member.DELETE("/api/v1/rentals/:bookId", returnBook)

	staff := server.Group("/books", requireAuth(), requireRole(auth.Role.CanManageBooks,
		"access is allowed to administrators and librarians only"))
	staff.GET("/manage_books", manageBooks)
	staff.POST("/new_book", newBook)
	staff.GET("/edit_books", getEditBook)
	staff.POST("/edit_books", editBook)
	staff.POST("/delete_book/:bookId", deleteBook)

	server.GET("/users/edit_users", requireAuth(), getEditUser)
	server.POST("/users/edit_users", requireAuth(), editUser)
	admin := server.Group("/users", requireAuth(), requireRole(auth.Role.CanManageUsers,
		"access is allowed to administrators only"))
	admin.GET("/manage_users", manageUsers)
	admin.POST("/delete_user/:userId", deleteUser)

	statsGroup := server.Group("/stats", requireAuth(), requireRole(auth.Role.CanViewStats,
		"access is allowed to administrators only"))
	statsGroup.GET("/rent_stats", rentStats)
	statsGroup.GET("/popular_stats", popularStats)
	statsGroup.GET("/"+stats.ExportFilename, exportRentStats)

	return server
}

func healthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "Host localhost:" + cfg.Port + " is active",
	})
}
