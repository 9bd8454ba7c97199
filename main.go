package main

import (
	"log"

	"songboard-bot/board"
	"songboard-bot/bot"
	"songboard-bot/command"
	"songboard-bot/config"
	"songboard-bot/database"
	"songboard-bot/grpc"
	"songboard-bot/handlers"
	"songboard-bot/metrics"
	"songboard-bot/utils"

	"github.com/spf13/viper"
)

func main() {
	// 加载 .env、config.yaml 与 config/guilds.json
	config.LoadConfig()

	db, dialect, err := database.Open(viper.GetString("database.driver"), viper.GetString("database.dsn"))
	if err != nil {
		log.Fatalf("Error opening ledger database: %v", err)
	}
	defer db.Close()

	b, err := bot.NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}
	b.Commands = command.GetCommandDefinitions()

	platform := handlers.NewSessionPlatform(b.Session)
	boards := []struct {
		board board.Board
		table string
	}{
		{board.Starboard, database.StarboardTable},
		{board.Songboard, database.SongboardTable},
	}
	var names []string
	for _, cfg := range boards {
		ledger, err := database.NewLedger(db, dialect, cfg.table)
		if err != nil {
			log.Fatalf("Error preparing %s ledger: %v", cfg.board.Name, err)
		}
		policies := config.NewPolicyProvider(viper.GetViper(), cfg.board.Name)
		b.Boards = append(b.Boards, bot.Board{
			Engine: board.NewEngine(cfg.board, ledger, policies, platform),
			Ledger: ledger,
		})
		names = append(names, cfg.board.Name)
	}

	// 初始化日志记录器
	utils.InitLogger(b.Session)

	if addr := viper.GetString("metrics.address"); addr != "" {
		b.Metrics = metrics.Serve(addr)
	}

	if addr := viper.GetString("grpc.address"); addr != "" {
		b.Health = grpc.NewHealthServer(names...)
		if err := b.Health.ListenAndServe(addr); err != nil {
			log.Fatalf("Error starting gRPC health server: %v", err)
		}
	}

	bot.Run(b, handlers.Register)
}
