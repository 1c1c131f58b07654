package main

import (
	"fmt"
	"log"
	"os"

	"easymode/internal/agent"
	"easymode/internal/api"
	"easymode/internal/coach"
	"easymode/internal/config"
	"easymode/internal/db"
	"easymode/internal/llm"
	"easymode/internal/memory"
	"easymode/internal/notify"
	redisdb "easymode/internal/redis"
	"easymode/internal/sched"
	"easymode/internal/trace"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	model := llm.NewClient(cfg)
	tracer := trace.NewClient(cfg)
	memories := memory.NewStore(db.DB)
	co := coach.New(db.DB, model, memories, tracer)
	planner := agent.NewPlanner(db.DB, model, tracer)

	if cfg.Scheduler.Enabled {
		sender := notify.NewSender(cfg)
		worker := sched.NewWorker(sched.NewJobs(db.DB, sender, planner))
		go worker.Start()
		log.Printf("[Main] Scheduler started (daily nudge %02d:00 UTC, weekly replan %s %02d:00 UTC)",
			sched.NudgeHourUTC, sched.ReplanWeekday, sched.ReplanHourUTC)
	} else {
		log.Printf("[Main] Scheduler disabled in config")
	}

	r := api.SetupRouter(cfg, rdb, api.Deps{Coach: co, Planner: planner, Memories: memories})
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
