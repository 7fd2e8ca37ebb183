// 手动批改待批改作业
//
// 主应用的后台任务会按 grading.batch_interval_seconds 定时执行批改。
// 此脚本只执行一轮，例如更换 AI 服务后需要立即补批，或后台任务被关闭时。
//
// 用法: go run scripts/grade_pending.go [-config configs]

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/service"
	"snaplearn_backend/pkg/database"
	"snaplearn_backend/pkg/logger"
	"time"

	"gopkg.in/yaml.v3"
)

type report struct {
	StartedAt time.Time `yaml:"started_at"`
	Provider  string    `yaml:"provider"`
	Graded    int       `yaml:"graded"`
	Duration  string    `yaml:"duration"`
	Error     string    `yaml:"error,omitempty"`
}

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis 连接失败: %v", err)
	}

	if (cfg.AI.Provider == "" || cfg.AI.Provider == "openai") && cfg.AI.APIKey == "" {
		log.Fatalf("未配置 AI_API_KEY，无法批改主观题")
	}
	grader, err := service.NewAIGrader(cfg.AI)
	if err != nil {
		log.Fatalf("AI 批改不可用: %v", err)
	}

	batch := service.NewBatchGrader(db,
		repository.NewHomeworkRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewMistakeRepository(db),
		service.NewLocker(rdb),
		cfg.Grading,
		grader,
	)

	rep := report{StartedAt: time.Now(), Provider: cfg.AI.Provider}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.Println("开始批改待批改作业...")
	n, err := batch.RunOnce(ctx)
	rep.Graded = n
	rep.Duration = time.Since(rep.StartedAt).Round(time.Millisecond).String()
	if err != nil {
		rep.Error = err.Error()
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		log.Fatalf("输出报告失败: %v", err)
	}
	if rep.Error != "" {
		os.Exit(1)
	}
}
