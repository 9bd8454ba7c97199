package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"songboard-bot/utils"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

var c *cron.Cron

// startScheduler starts the cron jobs.
func startScheduler(b *Bot) {
	log.Println("Initializing scheduler...")
	c = cron.New()

	idleTTL := viper.GetDuration("bot.lockIdleTTL")
	_, err := c.AddFunc("@hourly", func() {
		evictIdleLocks(b, idleTTL)
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}

	_, err = c.AddFunc("@daily", func() {
		reportDailyPromotions(b, time.Now())
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs scheduled: hourly lock eviction, daily promotion summary.")
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		<-c.Stop().Done()
		log.Println("Scheduler stopped.")
	}
}

func evictIdleLocks(b *Bot, idleTTL time.Duration) int {
	total := 0
	for _, brd := range b.Boards {
		n := brd.Engine.Locks().EvictIdle(idleTTL)
		if n > 0 {
			utils.Debug(brd.Engine.Board().Name, "EvictIdle", fmt.Sprintf("evicted %d idle guild locks", n))
		}
		total += n
	}
	return total
}

func reportDailyPromotions(b *Bot, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	day := utils.YesterdayRange(now)
	for _, brd := range b.Boards {
		name := brd.Engine.Board().Name
		promoted, err := brd.Ledger.CountCreated(ctx, day.Start, day.End)
		if err != nil {
			utils.Error(name, "DailySummary", err.Error())
			continue
		}
		total, err := brd.Ledger.Count(ctx)
		if err != nil {
			utils.Error(name, "DailySummary", err.Error())
			continue
		}
		utils.Info(name, "DailySummary", fmt.Sprintf("%d messages promoted on %s, %d in total", promoted, day.Start.Format("2006-01-02"), total))
	}
}
