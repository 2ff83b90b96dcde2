// 手动触发课程风险巡检脚本
//
// 每日巡检已集成到主应用的后台定时任务中（adaptive.risk_sweep_at）。
// 此脚本用于临时巡检，例如导入历史数据后立即查看需要干预的学生。
//
// 用法: go run scripts/risk_sweep.go -course <courseId> [-course <courseId> ...]

package main

import (
	"adaptive_learning_backend/internal/config"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/pkg/database"
	"adaptive_learning_backend/pkg/logger"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"
)

type courseList []string

func (c *courseList) String() string { return strings.Join(*c, ",") }

func (c *courseList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

func main() {
	var courses courseList
	configDir := flag.String("config", "configs", "配置文件所在目录")
	timeout := flag.Duration("timeout", 10*time.Minute, "整体超时时间")
	flag.Var(&courses, "course", "要巡检的课程ID，可重复；为空时使用配置中的 risk_sweep_courses")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if len(courses) == 0 {
		courses = cfg.Adaptive.RiskSweepCourses
	}
	if len(courses) == 0 {
		log.Fatal("未指定课程")
	}

	progress := repository.NewProgressRepository(db)
	risk := service.NewRiskService(progress, service.NewMetricsService(progress), cfg.Adaptive.SweepConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, id := range courses {
		report, err := risk.SweepCourse(ctx, id)
		if err != nil {
			log.Printf("课程 %s 巡检失败: %v", id, err)
			continue
		}
		if err := enc.Encode(report); err != nil {
			log.Fatalf("输出结果失败: %v", err)
		}
	}
	log.Println("完成！")
}
