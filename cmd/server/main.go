package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"weeklytrack/internal/config"
	"weeklytrack/internal/serverapp"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "weeklytrack.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.Default()
	app, err := serverapp.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer app.Close()

	handler, err := serverapp.NewHandler(app, serverapp.Options{
		Config:        cfg,
		StaticDir:     "static",
		UseDiskStatic: useDiskStaticByEnv(),
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}

func useDiskStaticByEnv() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("WEEKLYTRACK_DISK_STATIC")))
	return v == "1" || v == "true" || v == "yes"
}
