package main

import (
	"log"
	"time"

	"fulfillment-hub/internal/core/cache"
	"fulfillment-hub/internal/core/config"
	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/core/server"
	adapter "fulfillment-hub/internal/features/fulfillment/adapters"
	"fulfillment-hub/internal/features/fulfillment/handler"
	"fulfillment-hub/internal/features/fulfillment/service"
	storefrontadapter "fulfillment-hub/internal/features/storefront/adapters"
	storefronthandler "fulfillment-hub/internal/features/storefront/handler"
	storefrontservice "fulfillment-hub/internal/features/storefront/service"
	"fulfillment-hub/internal/jobs"

	"go.uber.org/zap"
)

// @title Fulfillment Hub API
// @version 1.0
// @description Multi-supplier fulfillment orchestration: catalog import, order routing, inventory sync and supplier health across heterogeneous dropship partners.
// @contact.name API Support
// @contact.email support@fulfillmenthub.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	supplierTimeout := time.Duration(cfg.SupplierTimeoutSeconds) * time.Second
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second

	// Supplier adapters. Adapters without credentials register disabled and
	// are reported unavailable instead of being hidden.
	registry := service.NewRegistry()
	registry.Register(adapter.NewPrintforgeAdapter(cfg.Suppliers.Printforge, supplierTimeout))
	registry.Register(adapter.NewOceansourceAdapter(cfg.Suppliers.Oceansource, supplierTimeout))
	registry.Register(adapter.NewCodexpressAdapter(cfg.Suppliers.Codexpress, supplierTimeout))
	registry.Register(adapter.NewNortradeAdapter(cfg.Suppliers.Nortrade, cfg.NetTermsDays, supplierTimeout))
	registry.Register(adapter.NewConsignlyAdapter(cfg.Suppliers.Consignly, supplierTimeout))

	// Catalog search cache. The engine degrades to live supplier calls when
	// Redis is unreachable, so a cache failure is not fatal.
	var searchCache cache.Cache
	redisCache, err := cache.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		l.Warn("Search cache disabled", zap.Error(err))
	} else {
		searchCache = redisCache
		defer redisCache.Close()
	}

	store := adapter.NewMemoryStore()
	orderRouter := service.NewOrderRouter(registry, store, supplierTimeout)
	catalogEngine := service.NewCatalogSyncEngine(
		registry,
		store,
		searchCache,
		time.Duration(cfg.SearchCacheTTLSeconds)*time.Second,
		cfg.SearchResultCap,
		supplierTimeout,
	)
	inventoryEngine := service.NewInventorySyncEngine(registry, supplierTimeout)
	healthMonitor := service.NewHealthMonitor(registry, probeTimeout)

	srv := server.New(cfg)

	fulfillmentHandler := handler.NewFulfillmentHandler(orderRouter, catalogEngine, inventoryEngine, healthMonitor)
	fulfillmentHandler.RegisterRoutes(srv.App)

	// Storefront bridge, only when WooCommerce credentials are present.
	if cfg.Storefront.Configured() {
		gateway := storefrontadapter.NewWooCommerceGateway(cfg.Storefront, supplierTimeout)
		storefrontSvc := storefrontservice.NewStorefrontService(gateway, orderRouter)
		storefronthandler.NewStorefrontHandler(storefrontSvc).RegisterRoutes(srv.App)
		l.Info("Storefront bridge enabled", zap.String("url", cfg.Storefront.URL))
	} else {
		l.Info("Storefront bridge disabled, credentials missing")
	}

	healthJob := jobs.NewHealthPollJob(healthMonitor, cfg.HealthPollSchedule)
	if err := healthJob.Start(); err != nil {
		l.Fatal("Failed to start health poll job", zap.Error(err))
	}
	defer healthJob.Stop()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
