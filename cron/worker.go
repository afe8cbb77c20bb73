package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"emviapp/config"
	"emviapp/models"
	booking "emviapp/services/booking"
	"emviapp/services/notification"
	"emviapp/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	cronv3 "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the booking-event email worker in background.
func InitNotificationWorker(mailer *notification.Mailer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingEvent, handleBookingEventTask(mailer))

	go monitorRedisConnection()

	// Start async worker with retry logic.
	go func() {
		log.Println("[NotificationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingEventTask(mailer *notification.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var evt models.BookingEvent
		if err := json.Unmarshal(task.Payload(), &evt); err != nil {
			zap.L().Error("invalid booking event payload", zap.Error(err))
			return err
		}
		return mailer.HandleBookingEvent(ctx, evt)
	}
}

// InitCompletionSweeper starts the scheduled job that marks confirmed
// bookings whose end time has passed as completed. Runs every 15 minutes.
func InitCompletionSweeper(svc booking.BookingService) *cronv3.Cron {
	c := cronv3.New()
	_, err := c.AddFunc("*/15 * * * *", func() {
		sweepCompletedBookings(svc)
	})
	if err != nil {
		log.Fatalf("[CompletionSweeper] Failed to schedule sweep: %v", err)
	}
	c.Start()
	return c
}

func sweepCompletedBookings(svc booking.BookingService) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := svc.CompleteDueBookings(ctx)
	if err != nil {
		zap.L().Error("completion sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		zap.L().Info("completion sweep finished", zap.Int("completed", count))
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotificationWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
