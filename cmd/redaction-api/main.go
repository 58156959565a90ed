package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/privasend/privasend/lib"
	"github.com/privasend/privasend/lib/blocklist"
	"github.com/privasend/privasend/lib/recogniser"
	http_recogniser "github.com/privasend/privasend/lib/recogniser/http-recogniser"
	"github.com/privasend/privasend/lib/validator"
	http_validator "github.com/privasend/privasend/lib/validator/http-validator"
)

// config structure
type redactionAPIConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Server   struct {
		HttpPort       int      `mapstructure:"http_port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	}
	Ner struct {
		Enabled    bool
		Url        string
		ScoreFloor float64 `mapstructure:"score_floor"`
	}
	Oracle struct {
		Enabled            bool
		Url                string
		Model              string
		CallTimeoutSeconds int `mapstructure:"call_timeout_seconds"`
		TotalBudgetSeconds int `mapstructure:"total_budget_seconds"`
		ContextChars       int `mapstructure:"context_chars"`
	}
	RedactionThreshold float64 `mapstructure:"redaction_threshold"`
	BlocklistPath      string  `mapstructure:"blocklist_path"`
}

var config redactionAPIConfig

func initConfig() {
	// Set default config values
	err := lib.InitializeConfig("./config/redaction-api.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port":       8080,
			"allowed_origins": []string{"http://localhost:3000"},
		},
		"ner": map[string]interface{}{
			"enabled":     true,
			"url":         "http://localhost:8000",
			"score_floor": 0.60,
		},
		"oracle": map[string]interface{}{
			"enabled":              false,
			"url":                  "http://localhost:11434",
			"model":                "llama3.2",
			"call_timeout_seconds": 15,
			"total_budget_seconds": 45,
			"context_chars":        50,
		},
		"redaction_threshold": 0.65,
	}, &config)
	if err != nil {
		panic(err)
	}
}

func main() {
	initConfig()

	if config.Ner.Enabled {
		recogniser.RegisterDefaultFactory(func() (recogniser.Client, error) {
			return http_recogniser.NewClient(config.Ner.Url), nil
		})
	}

	var oracle validator.Oracle
	if config.Oracle.Enabled {
		oracle = http_validator.NewOracle(config.Oracle.Url, config.Oracle.Model)
	}

	bl := blocklist.Default()
	if config.BlocklistPath != "" {
		loaded, err := blocklist.Load(config.BlocklistPath)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		bl = *loaded
	}

	valOpts := validator.DefaultOptions()
	valOpts.CallTimeout = time.Duration(config.Oracle.CallTimeoutSeconds) * time.Second
	valOpts.TotalBudget = time.Duration(config.Oracle.TotalBudgetSeconds) * time.Second
	valOpts.ContextChars = config.Oracle.ContextChars

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter("redaction-api")), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: config.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	c := controller{
		nerEnabled:         config.Ner.Enabled,
		nerScoreFloor:      config.Ner.ScoreFloor,
		oracle:             oracle,
		validation:         valOpts,
		blocklist:          bl,
		redactionThreshold: config.RedactionThreshold,
		oracleUrl:          config.Oracle.Url,
		httpClient:         http.DefaultClient,
	}
	s := server{controller: c}
	s.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.HttpPort),
		Handler: r,
	}
	go lib.HandleInterrupt(srv.Shutdown)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Send()
	}
}
