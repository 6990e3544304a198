package main

import (
	"log"
	"time"

	"dinq_social/config"
	"dinq_social/handler"
	"dinq_social/middleware"
	"dinq_social/model"
	"dinq_social/service"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	// 服务端统一使用 UTC
	time.Local = time.UTC
}

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer utils.CloseDB()

	if err := utils.GetDB().AutoMigrate(
		&model.User{},
		&model.FriendRequest{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Report{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer utils.CloseRedis()

	// 初始化认证中间件（Redis 做登出 token 黑名单）
	middleware.InitAuth(cfg.JWTSecret)
	middleware.SetTokenStore(utils.GetRedis())

	// 媒体存储（本地磁盘，经 /media 对外）
	storage, err := utils.NewLocalStorage(cfg.UploadDir, "/media")
	if err != nil {
		log.Fatalf("Failed to init media storage: %v", err)
	}

	// 事件推送 Hub
	hub := handler.NewHub(utils.GetRedis())

	// 创建服务
	userSvc := service.NewUserService(
		utils.GetDB(),
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLH)*time.Hour,
	)
	relSvc := service.NewRelationshipService(utils.GetDB())
	postSvc := service.NewPostService(utils.GetDB(), storage)
	commentSvc := service.NewCommentService(utils.GetDB())
	likeSvc := service.NewLikeService(utils.GetDB())
	reportSvc := service.NewReportService(utils.GetDB())
	searchSvc := service.NewSearchService(utils.GetDB())
	adminSvc := service.NewAdminService(utils.GetDB(), storage)

	// 注入事件推送
	relSvc.SetNotifier(hub)
	commentSvc.SetNotifier(hub)
	likeSvc.SetNotifier(hub)

	// 创建处理器
	userHandler := handler.NewUserHandler(userSvc, storage)
	relHandler := handler.NewRelationshipHandler(relSvc)
	postHandler := handler.NewPostHandler(postSvc, storage)
	commentHandler := handler.NewCommentHandler(commentSvc)
	likeHandler := handler.NewLikeHandler(likeSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	searchHandler := handler.NewSearchHandler(searchSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, userSvc, postSvc, reportSvc)

	// 创建 Gin 路由
	r := gin.Default()
	r.MaxMultipartMemory = int64(cfg.MaxUploadSizeMB) << 20

	// 注册统一错误处理中间件
	r.Use(middleware.ErrorHandlerMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})

	// 本地媒体文件
	r.Static("/media", cfg.UploadDir)

	// WebSocket 事件推送（使用 token 认证，不需要 HTTP 中间件）
	r.GET("/ws", handler.HandleWebSocket(hub))

	// 开放路由（无需认证）
	open := r.Group("/api/v1")
	{
		open.POST("/users/register", userHandler.Register)
		open.POST("/users/login", userHandler.Login)
		open.POST("/users/refresh", userHandler.Refresh)
	}

	// HTTP API 路由组（需要认证）
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/users/logout", userHandler.Logout)

		// 好友关系
		api.POST("/friendships/request/:receiverId", relHandler.SendRequest)
		api.GET("/friendships/pending", relHandler.PendingRequests)
		api.PATCH("/friendships/accept/:requestId", relHandler.AcceptRequest)
		api.PATCH("/friendships/reject/:requestId", relHandler.RejectRequest)
		api.GET("/friendships/list", relHandler.Friends)
		api.DELETE("/friendships/remove/:friendId", relHandler.RemoveFriend)

		// 帖子
		api.POST("/posts", postHandler.Create)
		api.GET("/posts", postHandler.Feed)
		api.GET("/posts/u/:username", postHandler.ByUsername)
		api.PATCH("/posts/:postId", postHandler.Update)
		api.DELETE("/posts/:postId", postHandler.Delete)

		// 评论
		api.POST("/comments/post/:postId", commentHandler.Add)
		api.GET("/comments/post/:postId", commentHandler.List)
		api.PATCH("/comments/:commentId", commentHandler.Update)
		api.DELETE("/comments/:commentId", commentHandler.Delete)

		// 点赞
		api.POST("/likes/:postId", likeHandler.Toggle)
		api.GET("/likes/:postId", likeHandler.List)

		// 举报
		api.POST("/reports", reportHandler.Create)

		// 搜索
		api.GET("/search", searchHandler.Search)
	}

	// 管理员 API 路由组（需要认证 + 管理员权限）
	r.POST("/api/admin/login", adminHandler.Login)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// 用户管理
		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/users/:userId", adminHandler.DeleteUser)
		admin.PATCH("/users/:userId/role", adminHandler.UpdateUserRole)

		// 帖子管理
		admin.GET("/posts", adminHandler.ListPosts)
		admin.DELETE("/posts/:postId", adminHandler.DeletePost)

		// 好友请求管理
		admin.GET("/friendships", adminHandler.ListFriendRequests)
		admin.PATCH("/friendships/:requestId", adminHandler.ManageFriendRequest)

		// 举报处理
		admin.GET("/reports", adminHandler.ListReports)
		admin.PATCH("/reports/:reportId", adminHandler.UpdateReportStatus)
	}

	// 启动服务
	log.Printf("dinq_social service starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
