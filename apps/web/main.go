package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"smartshop/pkg/config"
	"smartshop/pkg/storage"
	"smartshop/pkg/tracer"
	"smartshop/service"
)

// 定义资源名称
const ResCheckout = "checkout_api"

// initSentinel 初始化限流规则
func initSentinel() {
	err := sentinel.InitDefault()
	if err != nil {
		log.Fatalf("初始化 Sentinel 失败: %v", err)
	}

	// 配置流控规则
	_, err = flow.LoadRules([]*flow.Rule{
		{
			Resource:               ResCheckout, // 资源名称
			TokenCalculateStrategy: flow.Direct, // 直接计数
			ControlBehavior:        flow.Reject, // 直接拒绝
			Threshold:              10,          // QPS 限制为 10
			StatIntervalInMs:       1000,        // 统计周期 1秒
		},
	})
	if err != nil {
		log.Fatalf("加载 Sentinel 规则失败: %v", err)
	}
	log.Println("Sentinel 限流规则已加载: 下单接口 QPS Limit = 10")
}

// openStore 按配置选择持久化后端
func openStore(c *config.Config) (storage.Store, error) {
	switch c.Store.Driver {
	case "", "file":
		return storage.NewFileStore(c.Store.Path)
	case "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		return storage.NewRedisStore(c.Redis)
	case "mysql":
		return storage.NewMysqlStore(c.Mysql)
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
}

func main() {
	c, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 环境变量适配
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Service.Port = p
		}
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		c.Mysql.Host = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Mysql.Port = p
		}
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		c.Mysql.User = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		c.Mysql.Password = v
	}
	if v := os.Getenv("MYSQL_DBNAME"); v != "" {
		c.Mysql.DbName = v
	}

	// 初始化限流器
	initSentinel()

	// 链路追踪（可选）
	if c.Tracing.Enabled {
		tp, err := tracer.InitTracer(c.Service.Name, c.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("Failed to init tracer: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	// 打开存储并初始化种子数据
	store, err := openStore(c)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if err := service.Seed(context.Background(), store); err != nil {
		log.Fatalf("Failed to seed data: %v", err)
	}
	log.Printf("Store ready (driver=%s)", c.Store.Driver)

	// 组装数据访问层
	users := service.NewUserRepository(store)
	catalog := service.NewCatalog(store)
	cart := service.NewCartLedger(store, catalog)
	orders := service.NewOrderLedger(store, cart)

	// 启动 Gin
	r := gin.Default()
	r.Use(otelgin.Middleware(c.Service.Name))

	h := &handler{users: users, catalog: catalog, cart: cart, orders: orders}
	h.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", c.Service.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Printf("%s listening on %s", c.Service.Name, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
	log.Println("server exited")
}
