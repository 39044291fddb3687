// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集HTTP与分享生命周期指标.
//
// Example:
//
//	import "github.com/yeisme/swft/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.UploadsTotal.WithLabelValues("ok").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 自动注册pprof端点

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/swft/pkg/configs"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// UploadsTotal 上传计数（按结果：ok/link_taken/capacity/invalid_ttl/error）.
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swft_uploads_total",
			Help: "Total number of ingest attempts by outcome",
		},
		[]string{"outcome"},
	)

	// DownloadsTotal 下载计数（按结果：ok/not_found）.
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swft_downloads_total",
			Help: "Total number of download attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ReapedTotal 清扫删除的记录总数（按原因：expired/orphaned/admin）.
	ReapedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swft_reaped_files_total",
			Help: "Total number of records removed by the reaper or admin delete",
		},
		[]string{"reason"},
	)

	// StoreUsageBytes 数据目录当前占用字节数.
	StoreUsageBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "swft_store_usage_bytes",
			Help: "Current aggregate size of stored blobs in bytes",
		},
	)

	// ActiveRecords 注册表中活跃记录数.
	ActiveRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "swft_active_records",
			Help: "Number of active records in the link registry",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化Metrics.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	// 注册标准收集器
	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// 注册自定义指标
	registry.MustRegister(
		RequestCounter,
		RequestDuration,
		UploadsTotal,
		DownloadsTotal,
		ReapedTotal,
		StoreUsageBytes,
		ActiveRecords,
	)

	return nil
}

// StartMetricsServer 注册Metrics HTTP端点.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 如果启用pprof，注册pprof端点
	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
