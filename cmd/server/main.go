package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/cinevault/internal/cache"
	"github.com/user/cinevault/internal/config"
	"github.com/user/cinevault/internal/handler"
	"github.com/user/cinevault/internal/middleware"
	"github.com/user/cinevault/internal/model"
	"github.com/user/cinevault/internal/repository"
	"github.com/user/cinevault/internal/router"
	"github.com/user/cinevault/internal/service"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 初始化缓存：单实体视图和列表视图各一个实例，句柄显式传入各服务
	cacheCfg := cache.Config{TTL: cfg.CacheTTL, MaxEntries: cfg.CacheMaxEntries}
	movieCache := cache.New[*model.MovieDetail](cacheCfg)
	listCache := cache.New[*model.PagedMovies](cacheCfg)

	// 初始化服务
	tmdbClient := service.NewTMDBClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)
	movieService := service.NewMovieService(repos.Movie, movieCache, listCache)
	userService := service.NewUserService(repos.User)
	syncService := service.NewSyncService(repos.Movie, tmdbClient, movieService)

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 请求日志
	r.Use(middleware.Logger())

	// 初始化 Handler 并注册路由
	h := handler.NewHandler(cfg, movieService, userService, syncService, tmdbClient)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
